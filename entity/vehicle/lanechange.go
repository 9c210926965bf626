package vehicle

import (
	"math"

	"github.com/lanesim/lanesim/utils/config"
)

const (
	lcCooldownSeconds = 5.0 // 两次变道之间的最小实际时间（秒，除以speedup）
	lcMinVelocity     = 3.0 // 低于该速度不评估变道
	lcMinProgress     = 3.0 // 变道要求已前进的safe_distance倍数
	lcBaseProbRight   = 0.9 // 右变道的基础概率
)

// planLaneChange 横向决策（变道）
// 功能：在冷却与速度门限满足时，按概率执行至多一次变道
// 参数：conf-控制配置，c-容器（用于变道通知），n-本步邻车观测
// 算法说明：
// 1. 每步抽取一个均匀随机数p（无论门限是否满足，保持随机流一致）
// 2. 冷却门限：距上次变道超过5.0/speedup秒（实际时间），且velocity>3
// 3. 先判右：p<p_right且车道上界允许、已前进超过3*safe_distance、
//    右前间距>safe_distance、右后间距>右后车的safe_distance
// 4. 否则判左（对称条件，概率为p_left）
// 5. 变道后通知容器原车道并重置冷却计时
// 说明：先右后左的不对称优先级影响竞争下的结果，按参考行为保留
func (v *Vehicle) planLaneChange(conf *config.Control, c Container, n neighbors) {
	p := v.generator.Float64()

	if v.now().Sub(v.lastLaneChange).Seconds() <= lcCooldownSeconds/conf.Speedup ||
		v.runtime.V <= lcMinVelocity {
		return
	}

	rt := &v.runtime
	if p < v.probRight(n) &&
		rt.Lane+1 < conf.Lanes &&
		rt.Position > lcMinProgress*rt.SafeDistance &&
		(n.rightFront.veh == nil || n.rightFront.d > rt.SafeDistance) &&
		(n.rightBack.veh == nil || n.rightBack.d > n.rightBack.veh.SafeDistance()) {
		rt.Lane++
		c.NotifyLaneChange(v, rt.Lane-1)
		v.lastLaneChange = v.now()
	} else if p < v.probLeft(n) &&
		rt.Lane > 0 &&
		rt.Position > lcMinProgress*rt.SafeDistance &&
		(n.leftFront.veh == nil || n.leftFront.d > rt.SafeDistance) &&
		(n.leftBack.veh == nil || n.leftBack.d > n.leftBack.veh.SafeDistance()) {
		rt.Lane--
		c.NotifyLaneChange(v, rt.Lane+1)
		v.lastLaneChange = v.now()
	}
}

// probRight 右变道概率
// 功能：右前方车辆没有过快接近（速度差小于epsilon或间距超过K*safe_distance），
// 且右前、右后都有足够空间时为0.9，否则为0
func (v *Vehicle) probRight(n neighbors) float64 {
	rf := n.rightFront
	if (rf.veh == nil || v.runtime.V-rf.veh.V() < v.epsilon || rf.d > v.profile.K*v.runtime.SafeDistance) &&
		v.enoughRoom(n.rightFront) &&
		v.enoughRoom(n.rightBack) {
		return lcBaseProbRight
	}
	return 0
}

// probLeft 左变道概率
// 功能：满足全部前提时为(safe_distance/df)^(3/4)，否则为0：
// 1. 前车间距df存在且df < K1*safe_distance
// 2. 有真实的速度欠缺（对期望速度或对前车速度的差超过epsilon）
// 3. 左前、左后通过足够空间判断
// 4. 左侧邻车的相对速度/间距约束成立
func (v *Vehicle) probLeft(n neighbors) float64 {
	p := v.profile
	rt := v.runtime
	sd := rt.SafeDistance
	f, lf, lb := n.front, n.leftFront, n.leftBack

	if f.veh == nil || f.d == 0 || f.d >= p.K1*sd {
		return 0
	}
	if v.desiredVelocity-rt.V <= v.epsilon && v.desiredVelocity-f.veh.V() <= v.epsilon {
		return 0
	}
	if !v.enoughRoom(lf) || !v.enoughRoom(lb) {
		return 0
	}
	if lf.veh != nil && rt.V > lf.veh.V() && lf.d < p.K1*sd {
		return 0
	}
	if lb.veh != nil && rt.V < lb.veh.V() && lb.d < p.K1*sd {
		return 0
	}
	return math.Pow(sd/f.d, 3.0/4)
}

// enoughRoom 足够空间判断
// 功能：斜向邻车的间距需超过max(邻车长度, K*邻车安全距离)，无邻车视为通过
func (v *Vehicle) enoughRoom(n neighbor) bool {
	if n.veh == nil {
		return true
	}
	return n.d > math.Max(n.veh.Length(), v.profile.K*n.veh.SafeDistance())
}
