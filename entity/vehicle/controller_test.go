package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lanesim/lanesim/utils/randengine"
)

// followPair 构造一对固定参数的快速车（本车速度10、安全距离9，前车速度frontV）
func followPair(frontV float64) (v, front *Vehicle) {
	e := randengine.New(1)
	front = New(0, StandardFast, 0, 100, e)
	fixParams(front, 10, 3, 4, 32, 5)
	pin(front, 0, 100, frontV)

	v = New(1, StandardFast, 0, 0, e)
	fixParams(v, 10, 3, 4, 32, 5)
	pin(v, 0, 0, 10)
	v.runtime.SafeDistance = 9
	return
}

func TestAccelerationZoneBoundaryInclusive(t *testing.T) {
	v, front := followPair(5)

	// 间距恰为K1*safe_distance=27：边界属于加速区，
	// 即使前车很慢也按期望速度差加速
	a := standardZones{}.calc(v, neighbor{front, 27})
	assert.InDelta(t, 3, a, 1e-9) // scale*L*AMax超过AMax，取AMax

	// 略小于边界则进入自适应区，本车更快，按速度差比例制动
	a = standardZones{}.calc(v, neighbor{front, 26.99})
	assert.InDelta(t, -9, a, 1e-9) // (5-10)/5.01*90超过-Braking，取-Braking
}

func TestAdaptiveZoneFollowsFasterLeader(t *testing.T) {
	v, front := followPair(10.2)

	// 前车略快：按前车速度差执行加速区规则
	a := standardZones{}.calc(v, neighbor{front, 20})
	assert.InDelta(t, (10.2-10)/(10.2+0.01)*10*3, a, 1e-9)
}

func TestBrakingZone(t *testing.T) {
	v, front := followPair(5)

	// 前车减速快于本车且间距小于K*safe_distance：最大制动
	front.snapshot.A = -1
	a := standardZones{}.calc(v, neighbor{front, 10})
	assert.InDelta(t, -9, a, 1e-9)

	// 前车加速度恰为0不触发最大制动，本车更快：按间距线性插值
	front.snapshot.A = 0
	a = standardZones{}.calc(v, neighbor{front, 10})
	assert.InDelta(t, -(9.0/9*10-9), a, 1e-9) // -1

	// 无明确信号：轻微减速
	v.runtime.V = 5
	a = standardZones{}.calc(v, neighbor{front, 10})
	assert.InDelta(t, -0.1, a, 1e-9)
}

func TestReachDesiredAtTarget(t *testing.T) {
	v, _ := followPair(5)
	v.runtime.V = 32 // 已达期望速度

	a := standardZones{}.calc(v, neighbor{})
	assert.InDelta(t, 0, a, 1e-9)
}

func TestNoFrontIsAccelerationZone(t *testing.T) {
	v, _ := followPair(5)

	// 无前车视为间距无穷大，速度差22超过epsilon，按比例加速并以AMax封顶
	a := standardZones{}.calc(v, neighbor{})
	assert.InDelta(t, 3, a, 1e-9)
}
