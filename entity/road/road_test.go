package road_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanesim/lanesim/entity/road"
	"github.com/lanesim/lanesim/entity/vehicle"
	"github.com/lanesim/lanesim/utils/config"
	"github.com/lanesim/lanesim/utils/randengine"
)

func testControl() config.Control {
	return config.Control{
		Step:       config.ControlStep{Total: 1000, Interval: 0.1},
		Lanes:      3,
		RoadLength: 1000,
		FPS:        10,
		Speedup:    1,
	}
}

func TestNeighborQueries(t *testing.T) {
	conf := testControl()
	r := road.New(&conf)
	e := randengine.New(1)

	add := func(id int32, lane int, pos float64) *vehicle.Vehicle {
		v := vehicle.New(id, vehicle.StandardFast, lane, pos, e)
		r.Add(v)
		return v
	}

	// 车道1：后车20、本车50、前车80；车道0：40/70；车道2：30/50
	self := add(0, 1, 50)
	front := add(1, 1, 80)
	back := add(2, 1, 20)
	leftBack := add(3, 0, 40)
	leftFront := add(4, 0, 70)
	rightBack := add(5, 2, 30)
	rightFront := add(6, 2, 50) // 位置相同算作前方

	assert.Same(t, front, r.Front(self))
	assert.Same(t, back, r.Back(self))
	assert.Same(t, leftFront, r.LeftFront(self))
	assert.Same(t, leftBack, r.LeftBack(self))
	assert.Same(t, rightFront, r.RightFront(self))
	assert.Same(t, rightBack, r.RightBack(self))

	assert.Equal(t, 7, r.Count())
	assert.Equal(t, []*vehicle.Vehicle{back, self, front}, r.VehiclesInLane(1))
}

func TestNeighborQueriesEmpty(t *testing.T) {
	conf := testControl()
	r := road.New(&conf)
	v := vehicle.New(0, vehicle.StandardFast, 1, 50, randengine.New(1))
	r.Add(v)

	assert.Nil(t, r.Front(v))
	assert.Nil(t, r.Back(v))
	assert.Nil(t, r.LeftFront(v))
	assert.Nil(t, r.LeftBack(v))
	assert.Nil(t, r.RightFront(v))
	assert.Nil(t, r.RightBack(v))
}

func TestLaneBoundaryQueries(t *testing.T) {
	conf := testControl()
	r := road.New(&conf)
	e := randengine.New(1)

	left := vehicle.New(0, vehicle.StandardFast, 0, 50, e)
	right := vehicle.New(1, vehicle.StandardFast, 2, 50, e)
	r.Add(left)
	r.Add(right)

	// 最左/最右车道的越界一侧没有邻车
	assert.Nil(t, r.LeftFront(left))
	assert.Nil(t, r.LeftBack(left))
	assert.Nil(t, r.RightFront(right))
	assert.Nil(t, r.RightBack(right))
}

func TestRemove(t *testing.T) {
	conf := testControl()
	r := road.New(&conf)
	e := randengine.New(1)

	a := vehicle.New(0, vehicle.StandardFast, 0, 10, e)
	b := vehicle.New(1, vehicle.StandardFast, 0, 30, e)
	r.Add(a)
	r.Add(b)
	require.Equal(t, 2, r.Count())

	r.Remove(a)
	assert.Equal(t, 1, r.Count())
	assert.Nil(t, r.Back(b))
	assert.Equal(t, []*vehicle.Vehicle{b}, r.VehiclesInLane(0))
}

func TestPrepareKeepsLanesSorted(t *testing.T) {
	conf := testControl()
	r := road.New(&conf)
	e := randengine.New(1)

	for i := range int32(6) {
		r.Add(vehicle.New(i, vehicle.StandardFast, int(i)%2, float64(i)*20, e))
	}

	for range 50 {
		r.Prepare()
		for _, v := range r.Vehicles() {
			v.Update(&conf, r, conf.Step.Interval)
		}
	}
	r.Prepare()

	for lane := 0; lane < conf.Lanes; lane++ {
		vehicles := r.VehiclesInLane(lane)
		for i := 1; i < len(vehicles); i++ {
			assert.LessOrEqual(t, vehicles[i-1].Position(), vehicles[i].Position())
		}
		for i, v := range vehicles {
			assert.Equal(t, lane, v.Lane())
			if i+1 < len(vehicles) {
				assert.Same(t, vehicles[i+1], r.Front(v))
			} else {
				assert.Nil(t, r.Front(v))
			}
		}
	}
	for _, v := range r.Vehicles() {
		assert.GreaterOrEqual(t, v.V(), 0.0)
		assert.Greater(t, v.Position(), 0.0)
	}
}
