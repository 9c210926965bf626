package vehicle

import (
	"math"

	"github.com/lanesim/lanesim/utils/config"
)

// emergencyGapRatio 触发紧急修正的间距比例
// 说明：与前车的间距低于0.99倍extremely_safe_distance即视为控制失配
const emergencyGapRatio = .99

// integrate 运动学推进
// 功能：按上一时刻的加速度推进位置与速度，并执行碰撞安全修正
// 参数：conf-控制配置（FPS用于倒计时），c-邻车查询容器，dt-时间步长
// 算法说明：
// 1. 朴素积分：newPosition = pos + dt*v + 0.5*dt²*a，newVelocity = max(0, v + a*dt)
// 2. 若与同车道前车的间距低于0.99*extremely_safe_distance，执行紧急修正：
//    速度与加速度取前车值，位置钳制到前车后extremely_safe_distance处，
//    倒计时置为FPS步，并发出异常事件
// 3. 否则提交朴素积分结果并将倒计时减一（下限0）
// 说明：紧急修正在跟车控制参数正确时在几何上不应到达，到达即说明
// 控制器失配；它只作为异常被计数与记录，绝不中止仿真
func (v *Vehicle) integrate(conf *config.Control, c Container, dt float64) {
	newPosition := v.runtime.Position + dt*v.runtime.V + .5*dt*dt*v.runtime.A
	newVelocity := math.Max(0, v.runtime.V+v.runtime.A*dt)

	front := c.Front(v)
	if front != nil && math.Abs(front.Position()-newPosition) < emergencyGapRatio*v.extremelySafeDistance {
		v.runtime.V = front.V()
		v.runtime.A = front.A()
		v.runtime.Position = front.Position() - v.extremelySafeDistance

		v.emergency = conf.FPS

		log.Warnf("vehicle %d: emergency speed change, fix driver behavior for variant %s",
			v.id, v.profile.Variant)
		if v.sink != nil {
			v.sink.EmergencyCorrected(AnomalyEvent{Vehicle: v, Front: front})
		}
	} else {
		v.runtime.Position = newPosition
		v.runtime.V = newVelocity
		if v.emergency > 0 {
			v.emergency--
		}
	}
}
