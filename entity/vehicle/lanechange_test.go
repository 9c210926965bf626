package vehicle

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lanesim/lanesim/utils/config"
	"github.com/lanesim/lanesim/utils/randengine"
)

// changer 构造一辆冷却可控的快速车（车道1、位置100、速度vel）
// 返回车辆和推进实际时间的函数
func changer(seed uint64, vel float64) (*Vehicle, func(d time.Duration)) {
	v := New(0, StandardFast, 1, 100, randengine.New(seed))
	fixParams(v, 10, 3, 4, 32, 5)
	pin(v, 1, 100, vel)

	cur := time.Unix(0, 0)
	v.SetTimeSource(func() time.Time { return cur })
	advance := func(d time.Duration) { cur = cur.Add(d) }
	return v, advance
}

var lcConf = config.Control{Lanes: 3, Speedup: 1, FPS: 10}

func TestLaneChangeSuppressedAtLowVelocity(t *testing.T) {
	v, advance := changer(1, 3) // velocity恰为门限值，不满足>3
	advance(time.Hour)
	c := &stubContainer{}

	for range 20 {
		v.planLaneChange(&lcConf, c, neighbors{})
	}
	assert.Equal(t, 1, v.Runtime().Lane)
	assert.Empty(t, c.changes)
}

func TestLaneChangeCooldown(t *testing.T) {
	v, _ := changer(1, 10) // 实际时间未推进，冷却永不过期
	c := &stubContainer{}

	for range 20 {
		v.planLaneChange(&lcConf, c, neighbors{})
	}
	assert.Equal(t, 1, v.Runtime().Lane)
}

func TestLaneChangeRightPreferredOnEmptyRoad(t *testing.T) {
	// 空旷道路上p_right=0.9、p_left=0：统计上绝大多数车辆右移，没有车辆左移
	right := 0
	for seed := uint64(1); seed <= 100; seed++ {
		v, advance := changer(seed, 10)
		advance(time.Hour)
		c := &stubContainer{}

		v.planLaneChange(&lcConf, c, neighbors{})
		lane := v.Runtime().Lane
		assert.NotEqual(t, 0, lane)
		if lane == 2 {
			right++
			assert.Equal(t, []int{1}, c.changes)
		}
	}
	assert.Greater(t, right, 60)
}

func TestRightCheckedBeforeLeft(t *testing.T) {
	// 前车近且慢使p_left>0，但右侧同样可行：变道总是向右
	for seed := uint64(1); seed <= 50; seed++ {
		v, advance := changer(seed, 10)
		advance(time.Hour)

		e := randengine.New(1000 + seed)
		front := New(1, StandardFast, 1, 120, e)
		fixParams(front, 10, 3, 4, 32, 5)
		pin(front, 1, 120, 5)

		c := &stubContainer{front: front}
		n := neighbors{front: neighbor{front, 20}}

		v.planLaneChange(&lcConf, c, n)
		assert.NotEqual(t, 0, v.Runtime().Lane)
	}
}

func TestLaneChangeOncePerCooldown(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		v, advance := changer(seed, 10)
		advance(time.Hour)
		c := &stubContainer{}

		v.planLaneChange(&lcConf, c, neighbors{})
		if v.Runtime().Lane != 2 {
			continue
		}
		// 变道已重置冷却计时，同一冷却期内不再变道
		v.planLaneChange(&lcConf, c, neighbors{})
		assert.Equal(t, 2, v.Runtime().Lane)
		assert.Len(t, c.changes, 1)
		return
	}
	t.Fatal("no vehicle changed lane in 50 trials")
}

func TestLaneChangeBlockedByRightBack(t *testing.T) {
	e := randengine.New(2)
	rb := New(1, StandardFast, 2, 95, e)
	fixParams(rb, 10, 3, 4, 32, 5)
	pin(rb, 2, 95, 10) // safe_distance=9，间距5不够

	for seed := uint64(1); seed <= 20; seed++ {
		v, advance := changer(seed, 10)
		advance(time.Hour)
		c := &stubContainer{rightBack: rb}
		n := neighbors{rightBack: neighbor{rb, 5}}

		v.planLaneChange(&lcConf, c, n)
		assert.Equal(t, 1, v.Runtime().Lane)
	}
}

func TestLaneChangeRespectsLaneBounds(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		v, advance := changer(seed, 10)
		pin(v, 2, 100, 10) // 最右车道
		advance(time.Hour)
		c := &stubContainer{}

		v.planLaneChange(&lcConf, c, neighbors{})
		assert.Equal(t, 2, v.Runtime().Lane)
	}
}

func TestEnoughRoom(t *testing.T) {
	e := randengine.New(1)
	v := New(0, StandardFast, 0, 0, e)
	fixParams(v, 10, 3, 4, 32, 5)

	other := New(1, StandardFast, 0, 0, e)
	fixParams(other, 10, 3, 4, 32, 5)
	pin(other, 0, 0, 10) // length=4，K*safe_distance=12.6

	assert.True(t, v.enoughRoom(neighbor{}))
	assert.False(t, v.enoughRoom(neighbor{other, 12.6}))
	assert.True(t, v.enoughRoom(neighbor{other, 12.7}))
}

func TestProbLeftConditions(t *testing.T) {
	e := randengine.New(1)
	front := New(1, StandardFast, 1, 120, e)
	fixParams(front, 10, 3, 4, 32, 5)
	pin(front, 1, 120, 5)

	v, _ := changer(1, 10)

	// 前车近且慢：p_left=(sd/df)^(3/4)
	p := v.probLeft(neighbors{front: neighbor{front, 20}})
	assert.InDelta(t, math.Pow(9.0/20, 3.0/4), p, 1e-9)

	// 无前车没有变道动机
	assert.Zero(t, v.probLeft(neighbors{}))

	// 前车间距超过K1*safe_distance没有变道动机
	assert.Zero(t, v.probLeft(neighbors{front: neighbor{front, 27}}))

	// 左后方更快且过近则放弃
	lb := New(2, StandardFast, 0, 90, e)
	fixParams(lb, 10, 3, 4, 32, 5)
	pin(lb, 0, 90, 20)
	n := neighbors{front: neighbor{front, 20}, leftBack: neighbor{lb, 15}}
	assert.Zero(t, v.probLeft(n))
}
