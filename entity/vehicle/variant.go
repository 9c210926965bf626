package vehicle

import (
	"fmt"

	"github.com/lanesim/lanesim/utils/randengine"
)

// Variant 车辆类型标签
// 功能：标识车辆的行为类型，决定常量集与加速度分区策略
// 说明：不采用继承层级，类型差异通过常量集Profile与accPolicy策略组合表达
type Variant int

const (
	StandardSlow Variant = iota // 慢速车（卡车类）
	StandardFast                // 快速车（小汽车类）
	Automated                   // 自动驾驶车（带锁定区策略）
)

// Variants 全部车辆类型，顺序固定以保证按权重抽取时的可复现性
var Variants = []Variant{StandardSlow, StandardFast, Automated}

// String 获取车辆类型的字符串表示
func (v Variant) String() string {
	switch v {
	case StandardSlow:
		return "standard_slow"
	case StandardFast:
		return "standard_fast"
	case Automated:
		return "automated"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// VariantFromString 从字符串解析车辆类型
// 参数：s-类型名（standard_slow、standard_fast、automated）
// 返回：车辆类型和可能的错误
func VariantFromString(s string) (Variant, error) {
	for _, v := range Variants {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("vehicle: unknown variant %q", s)
}

// valueRange 均匀抽取区间[Low, High)，Low==High表示固定值
type valueRange struct {
	Low, High float64
}

func (r valueRange) draw(e *randengine.Engine) float64 {
	return e.UniformFloat64(r.Low, r.High)
}

// profileSpec 每类车辆的常量集与参数抽取区间
// 说明：K1>K2为分区阈值（Automated额外定义K3<K2），K为距离系数，
// A0为接近期望速度时的小常量加速度，L/L2为比例系数
type profileSpec struct {
	K, K1, K2, K3 float64
	A0            float64
	L, L2         valueRange
	AMax          valueRange
	Braking       float64
	Length        float64
	SafeTime      float64
	ESD           valueRange // extremely_safe_distance抽取区间
	DesiredV      valueRange
	Epsilon       valueRange
}

var profileSpecs = map[Variant]profileSpec{
	StandardFast: {
		K: 1.4, K1: 3.0, K2: 1.8,
		A0:       1.0,
		L:        valueRange{1, 20},
		AMax:     valueRange{2.5, 4},
		Braking:  9.0,
		Length:   4.0,
		SafeTime: 0.9,
		ESD:      valueRange{2.5, 4},
		DesiredV: valueRange{30, 35},
		Epsilon:  valueRange{2, 10},
	},
	StandardSlow: {
		K: 2.0, K1: 2.6, K2: 2.2,
		A0:       1.0,
		L:        valueRange{1, 1},
		AMax:     valueRange{1, 2},
		Braking:  5.0,
		Length:   15.0,
		SafeTime: 2.2,
		ESD:      valueRange{8, 9},
		DesiredV: valueRange{18, 22},
		Epsilon:  valueRange{1, 3},
	},
	Automated: {
		K: 1.4, K1: 3.0, K2: 1.8, K3: 1.1,
		A0:       1.0,
		L:        valueRange{10, 10},
		L2:       valueRange{50, 50},
		AMax:     valueRange{2.5, 4},
		Braking:  9.0,
		Length:   4.0,
		SafeTime: 0.9,
		ESD:      valueRange{4, 4},
		DesiredV: valueRange{30, 35},
		Epsilon:  valueRange{2, 10},
	},
}

// Profile 车辆常量集
// 功能：每辆车在构造时固定下来的不可变参数，区间参数从profileSpec中均匀抽取
type Profile struct {
	Variant       Variant
	K, K1, K2, K3 float64
	A0            float64
	L, L2         float64
	AMax          float64
	Braking       float64
	Length        float64
	SafeTime      float64
}

// newProfile 创建车辆常量集并抽取行为参数
// 参数：variant-车辆类型，e-随机数引擎
// 返回：常量集、extremely_safe_distance、期望速度、epsilon
// 说明：所有抽取都经过传入的引擎，固定种子下完全可复现；
// 每类车辆消耗相同数量的随机数（固定值按退化区间抽取）
func newProfile(variant Variant, e *randengine.Engine) (p Profile, esd, desiredV, epsilon float64) {
	spec, ok := profileSpecs[variant]
	if !ok {
		log.Panicf("variant: no profile spec for %v", variant)
	}
	p = Profile{
		Variant: variant,
		K:       spec.K, K1: spec.K1, K2: spec.K2, K3: spec.K3,
		A0:       spec.A0,
		L:        spec.L.draw(e),
		L2:       spec.L2.draw(e),
		AMax:     spec.AMax.draw(e),
		Braking:  spec.Braking,
		Length:   spec.Length,
		SafeTime: spec.SafeTime,
	}
	esd = spec.ESD.draw(e)
	desiredV = spec.DesiredV.draw(e)
	epsilon = spec.Epsilon.draw(e)
	return
}

// policyFor 根据车辆类型选择加速度分区策略
func policyFor(variant Variant) accPolicy {
	if variant == Automated {
		return automatedZones{}
	}
	return standardZones{}
}
