// Package gen 提供压测用的确定性 key 生成（FastRandom、批量 key、lognormal 分布）
package gen
