package road

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/lanesim/lanesim/entity/vehicle"
	"github.com/lanesim/lanesim/utils/config"
	"github.com/lanesim/lanesim/utils/randengine"
)

// Manager 车辆生命周期管理器
// 功能：按配置的节奏在道路起点生成车辆，并移除驶出路段的车辆
// 说明：车辆的创建与销毁完全由容器一侧负责，车辆核心只负责状态演化
type Manager struct {
	conf      *config.RuntimeConfig
	road      *Road
	generator *randengine.Engine

	variants []vehicle.Variant // 与weights一一对应，顺序固定
	weights  []float64

	nextID     int32
	nextSpawnT float64
}

// NewManager 创建车辆生命周期管理器
// 参数：rc-运行时配置，r-道路容器，e-随机数引擎
// 返回：管理器实例和可能的错误
// 算法说明：
// 1. 校验生成配置中的类型名与权重
// 2. 按固定的类型顺序展开权重数组，保证离散抽取的可复现性
func NewManager(rc *config.RuntimeConfig, r *Road, e *randengine.Engine) (*Manager, error) {
	m := &Manager{
		conf:      rc,
		road:      r,
		generator: e,
	}
	for key := range rc.All.Spawn.Mix {
		if _, err := vehicle.VariantFromString(key); err != nil {
			return nil, fmt.Errorf("road: bad spawn mix: %w", err)
		}
	}
	for _, v := range vehicle.Variants {
		w := rc.All.Spawn.Mix[v.String()]
		if w < 0 {
			return nil, fmt.Errorf("road: negative spawn weight for %s", v)
		}
		if w > 0 {
			m.variants = append(m.variants, v)
			m.weights = append(m.weights, w)
		}
	}
	if lo.Sum(m.weights) <= 0 {
		return nil, fmt.Errorf("road: spawn mix has no positive weight")
	}
	if rc.All.Spawn.Interval <= 0 {
		return nil, fmt.Errorf("road: spawn interval must be > 0, got %v", rc.All.Spawn.Interval)
	}
	return m, nil
}

// Spawn 在道路起点生成车辆
// 功能：仿真时间越过下一生成时刻后，抽取类型与车道生成一辆车
// 参数：t-当前仿真时间（秒）
// 返回：本步生成的车辆（入口被占用时为空）
// 算法说明：
// 1. 生成间隔服从均值为interval的指数分布（由共享引擎驱动，可复现）
// 2. 车道均匀抽取，类型按权重离散抽取
// 3. 入口被占用（车道最后方车辆距起点过近）则放弃本次生成
func (m *Manager) Spawn(t float64) []*vehicle.Vehicle {
	var spawned []*vehicle.Vehicle
	for t >= m.nextSpawnT {
		m.nextSpawnT += m.conf.All.Spawn.Interval * m.generator.ExpFloat64()

		lane := m.generator.Intn(m.conf.C.Lanes)
		variant := m.variants[m.generator.DiscreteDistribution(m.weights)]
		v := vehicle.New(m.nextID, variant, lane, 0, m.generator)
		m.nextID++

		if first := m.entryBlocker(lane, v); first != nil {
			log.Debugf("road: spawn of %s blocked in lane %d by vehicle %d",
				variant, lane, first.ID())
			continue
		}
		m.road.Add(v)
		spawned = append(spawned, v)
	}
	return spawned
}

// entryBlocker 获取阻塞车道入口的车辆
// 说明：车道最后方车辆与起点的距离需超过max(该车车长, 新车extremely_safe_distance)
func (m *Manager) entryBlocker(lane int, v *vehicle.Vehicle) *vehicle.Vehicle {
	first := m.road.lanes[lane].First()
	if first == nil {
		return nil
	}
	if first.S > math.Max(first.Value.Length(), v.ExtremelySafeDistance()) {
		return nil
	}
	return first.Value
}

// Despawn 移除驶出路段的车辆
// 返回：本步移除的车辆
func (m *Manager) Despawn() []*vehicle.Vehicle {
	var out []*vehicle.Vehicle
	for _, v := range m.road.Vehicles() {
		if v.Runtime().Position > m.conf.C.RoadLength {
			out = append(out, v)
		}
	}
	for _, v := range out {
		m.road.Remove(v)
	}
	return out
}
