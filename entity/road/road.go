package road

import (
	"fmt"

	"github.com/lanesim/lanesim/entity/vehicle"
	"github.com/lanesim/lanesim/utils/config"
	"github.com/lanesim/lanesim/utils/container"
)

// laneList 每条车道的车辆索引，按位置升序
type laneList = container.List[*vehicle.Vehicle]

// laneNode 车辆在车道索引中的节点
type laneNode = container.ListNode[*vehicle.Vehicle]

// Road 道路容器
// 功能：维护每条车道上按位置升序的车辆索引，回答六个方向的最近邻车查询
// 说明：实现vehicle.Container接口。所有查询都基于上一准备阶段建立的索引与
// 车辆快照，车辆更新阶段产生的位置/车道变化要到下一次Prepare才可见，
// 从而保证一个模拟步内的观测一致性
type Road struct {
	conf *config.Control

	lanes    []*laneList
	nodes    map[*vehicle.Vehicle]*laneNode
	vehicles []*vehicle.Vehicle // 保持加入顺序，保证更新顺序可复现

	// 更新阶段收到的变道通知，Prepare时统一重建索引
	pendingMoves []*vehicle.Vehicle
}

// New 创建道路容器
// 参数：conf-控制配置（车道数、道路长度）
func New(conf *config.Control) *Road {
	r := &Road{
		conf:  conf,
		lanes: make([]*laneList, conf.Lanes),
		nodes: make(map[*vehicle.Vehicle]*laneNode),
	}
	for i := range r.lanes {
		r.lanes[i] = &laneList{ID: fmt.Sprintf("lane-%d", i)}
	}
	return r
}

// Add 将车辆加入道路索引
// 说明：按车辆快照位置插入所在车道的升序索引
func (r *Road) Add(v *vehicle.Vehicle) {
	if _, ok := r.nodes[v]; ok {
		log.Panicf("road: vehicle %d already on road", v.ID())
	}
	node := &laneNode{S: v.Position(), Value: v}
	r.lanes[v.Lane()].Merge([]*laneNode{node})
	r.nodes[v] = node
	r.vehicles = append(r.vehicles, v)
}

// Remove 将车辆移出道路索引
func (r *Road) Remove(v *vehicle.Vehicle) {
	node, ok := r.nodes[v]
	if !ok {
		log.Panicf("road: vehicle %d not on road", v.ID())
	}
	node.Parent().Remove(node)
	delete(r.nodes, v)
	for i, o := range r.vehicles {
		if o == v {
			r.vehicles = append(r.vehicles[:i], r.vehicles[i+1:]...)
			break
		}
	}
}

// Vehicles 获取道路上的全部车辆（加入顺序）
func (r *Road) Vehicles() []*vehicle.Vehicle {
	return r.vehicles
}

// VehiclesInLane 获取某条车道上的车辆（位置升序）
func (r *Road) VehiclesInLane(lane int) []*vehicle.Vehicle {
	if lane < 0 || lane >= len(r.lanes) {
		return nil
	}
	return r.lanes[lane].Values()
}

// Count 获取道路上的车辆数
func (r *Road) Count() int {
	return len(r.vehicles)
}

// Prepare 准备阶段：提升快照并重建索引
// 功能：每个模拟步开始时调用，依次：
// 1. 将所有车辆的runtime状态提升为snapshot
// 2. 应用更新阶段收到的变道通知（把节点移入新车道索引）
// 3. 刷新每个节点的位置键并用PopUnsorted+Merge恢复每条车道的升序性
func (r *Road) Prepare() {
	for _, v := range r.vehicles {
		v.PrepareSnapshot()
	}
	for _, v := range r.pendingMoves {
		node, ok := r.nodes[v]
		if !ok {
			// 同一步内变道后又离开道路
			continue
		}
		lane := r.lanes[v.Lane()]
		if node.Parent() == lane {
			continue
		}
		node.Parent().Remove(node)
		node.S = v.Position()
		lane.Merge([]*laneNode{node})
	}
	r.pendingMoves = r.pendingMoves[:0]
	for _, lane := range r.lanes {
		for node := lane.First(); node != nil; node = node.Next() {
			node.S = node.Value.Position()
		}
		lane.Merge(lane.PopUnsorted())
	}
}

// vehicle.Container接口实现
// 说明：同车道查询直接走链表的前驱/后继；相邻车道查询按位置扫描。
// 位置相同的侧向车辆算作前方（间距0，任何空间判断都不会通过）

// Front 同车道前方最近车辆
func (r *Road) Front(v *vehicle.Vehicle) *vehicle.Vehicle {
	if next := r.nodes[v].Next(); next != nil {
		return next.Value
	}
	return nil
}

// Back 同车道后方最近车辆
func (r *Road) Back(v *vehicle.Vehicle) *vehicle.Vehicle {
	if prev := r.nodes[v].Prev(); prev != nil {
		return prev.Value
	}
	return nil
}

// LeftFront 左侧车道前方最近车辆
func (r *Road) LeftFront(v *vehicle.Vehicle) *vehicle.Vehicle {
	front, _ := r.sideNeighbors(v.Lane()-1, v.Position())
	return front
}

// LeftBack 左侧车道后方最近车辆
func (r *Road) LeftBack(v *vehicle.Vehicle) *vehicle.Vehicle {
	_, back := r.sideNeighbors(v.Lane()-1, v.Position())
	return back
}

// RightFront 右侧车道前方最近车辆
func (r *Road) RightFront(v *vehicle.Vehicle) *vehicle.Vehicle {
	front, _ := r.sideNeighbors(v.Lane()+1, v.Position())
	return front
}

// RightBack 右侧车道后方最近车辆
func (r *Road) RightBack(v *vehicle.Vehicle) *vehicle.Vehicle {
	_, back := r.sideNeighbors(v.Lane()+1, v.Position())
	return back
}

// NotifyLaneChange 变道通知
// 参数：v-变道车辆，prevLane-原车道
// 说明：只做记录，索引重建推迟到下一次Prepare，保证本步观测一致
func (r *Road) NotifyLaneChange(v *vehicle.Vehicle, prevLane int) {
	log.Debugf("road: vehicle %d changed lane %d -> %d", v.ID(), prevLane, v.Runtime().Lane)
	r.pendingMoves = append(r.pendingMoves, v)
}

// sideNeighbors 相邻车道的前后最近邻车
func (r *Road) sideNeighbors(lane int, pos float64) (front, back *vehicle.Vehicle) {
	if lane < 0 || lane >= len(r.lanes) {
		return nil, nil
	}
	for node := r.lanes[lane].First(); node != nil; node = node.Next() {
		if node.S >= pos {
			front = node.Value
			break
		}
		back = node.Value
	}
	return
}
