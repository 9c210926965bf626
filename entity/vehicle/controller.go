package vehicle

import (
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
)

const (
	// 除法保护偏移，避免速度接近零时除零，必须与参考数值行为保持一致
	divGuard     = 0.01
	divGuardFine = 0.001

	// 锁定区判定阈值（Automated）
	lockInDesiredVGap = 2 // 前车速度与期望速度的最大差
	lockInVGap        = 1 // 本车速度与前车速度的最大差（满足则直接吸附）
	lockInMinESD      = 2 // extremely_safe_distance收紧的下限

	// 制动区无明确信号时的轻微减速
	creepBrakingA = -0.1
)

// neighbor 邻车观测
// 功能：记录某个方向上最近邻车与本车的纵向距离
// 说明：veh为nil表示该方向没有邻车，约束视为宽松（无约束）
type neighbor struct {
	veh *Vehicle
	d   float64 // 纵向间距（前向为对方-本车，后向为本车-对方）
}

// gap 获取间距，无邻车视为正无穷（宽松默认）
func (n neighbor) gap() float64 {
	if n.veh == nil {
		return mathutil.INF
	}
	return n.d
}

// neighbors 六个方向的邻车观测
//
//	[lf] - left front     [lb] - left back
//	[f]  - front          [b]  - back
//	[rf] - right front    [rb] - right back
type neighbors struct {
	front, back           neighbor
	leftFront, leftBack   neighbor
	rightFront, rightBack neighbor
}

// observe 观测六个方向的邻车
// 说明：容器返回的邻车getter均读取上一阶段快照，本步内观测结果一致
func (v *Vehicle) observe(c Container) (n neighbors) {
	pos := v.runtime.Position
	if f := c.Front(v); f != nil {
		n.front = neighbor{f, f.Position() - pos}
	}
	if b := c.Back(v); b != nil {
		n.back = neighbor{b, pos - b.Position()}
	}
	if lf := c.LeftFront(v); lf != nil {
		n.leftFront = neighbor{lf, lf.Position() - pos}
	}
	if lb := c.LeftBack(v); lb != nil {
		n.leftBack = neighbor{lb, pos - lb.Position()}
	}
	if rf := c.RightFront(v); rf != nil {
		n.rightFront = neighbor{rf, rf.Position() - pos}
	}
	if rb := c.RightBack(v); rb != nil {
		n.rightBack = neighbor{rb, pos - rb.Position()}
	}
	return
}

// accPolicy 分区加速度策略
// 功能：按与前车间距相对安全距离的分区计算目标加速度
// 说明：标准策略三个分区（加速、自适应、制动），Automated策略额外定义锁定区；
// 以策略组合代替子类覆写
type accPolicy interface {
	calc(v *Vehicle, front neighbor) float64
}

// reachDesiredA 加速区的三段规则
// 功能：已达期望速度则不加速；差值小于epsilon则用小常量A0；
// 否则按比例系数scale加速并以AMax封顶
func (v *Vehicle) reachDesiredA(scale float64) float64 {
	deficit := v.desiredVelocity - v.runtime.V
	if deficit == 0 {
		return 0
	}
	if deficit < v.epsilon {
		return v.profile.A0
	}
	return math.Min(v.profile.AMax, scale*v.profile.L*v.profile.AMax)
}

// adaptiveA 自适应区加速度
// 功能：比前车快则按速度差比例制动，否则按前车速度差执行加速区三段规则
func (v *Vehicle) adaptiveA(front neighbor) float64 {
	vf := front.veh.V()
	if v.runtime.V > vf {
		return math.Max(-v.profile.Braking, (vf-v.runtime.V)/(vf+divGuard)*v.profile.L*v.profile.Braking)
	}
	return v.reachDesiredA((vf - v.runtime.V) / (vf + divGuard))
}

// brakingA 制动区加速度
// 功能：三种情况依次判断：
// 1. 间距小于K*safe_distance且前车减速快于本车：最大制动
// 2. 本车快于前车：按间距线性插值的制动（始终为负）
// 3. 无明确信号：轻微减速
// 说明：前车加速度恰为0时不触发最大制动分支，保持参考数值行为
func (v *Vehicle) brakingA(front neighbor, df, sd float64) float64 {
	p := v.profile
	vf, af := front.veh.V(), front.veh.A()
	switch {
	case df < p.K*sd && af != 0 && af < v.runtime.A:
		return -p.Braking
	case v.runtime.V > vf:
		return math.Max(-p.Braking, -(p.Braking/sd*df - p.Braking))
	default:
		return creepBrakingA
	}
}

// standardZones 标准三分区策略（StandardSlow、StandardFast）
type standardZones struct{}

func (standardZones) calc(v *Vehicle, front neighbor) float64 {
	p := v.profile
	sd := v.runtime.SafeDistance
	df := front.gap()
	switch {
	// 加速区（含无前车，边界df==K1*sd含在加速区内）
	case df >= p.K1*sd:
		return v.reachDesiredA((v.desiredVelocity - v.runtime.V) / (v.runtime.V + divGuard))
	// 自适应区
	case df > p.K2*sd:
		return v.adaptiveA(front)
	// 制动区
	default:
		return v.brakingA(front, df, sd)
	}
}

// automatedZones 自动驾驶四分区策略（Automated）
// 说明：在标准三分区之间增加锁定区，与速度接近期望值的前车结成车队，
// 吸附其速度并逐步收紧extremely_safe_distance以压缩车队间距
type automatedZones struct{}

func (automatedZones) calc(v *Vehicle, front neighbor) float64 {
	p := v.profile
	sd := v.runtime.SafeDistance
	df := front.gap()
	switch {
	case df >= p.K1*sd:
		return v.reachDesiredA((v.desiredVelocity - v.runtime.V) / (v.runtime.V + divGuard))
	case df > p.K2*sd:
		return v.adaptiveA(front)
	// 锁定区：K3*sd < df <= K2*sd且前车速度接近期望速度
	case df > p.K3*sd && math.Abs(front.veh.V()-v.desiredVelocity) < lockInDesiredVGap:
		vf := front.veh.V()
		if math.Abs(v.runtime.V-vf) < lockInVGap {
			v.runtime.V = vf
			if v.extremelySafeDistance > lockInMinESD {
				v.extremelySafeDistance--
			}
			return 0
		}
		return math.Min(p.AMax, (vf-v.runtime.V)/(v.runtime.V+divGuardFine)*p.L2*p.AMax)
	default:
		return v.brakingA(front, df, sd)
	}
}
