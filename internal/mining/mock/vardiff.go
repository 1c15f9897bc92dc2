package mock

import "math"

// VarDiff doubles difficulty within the range, used to vary jobs difficulty of a mock pool
type VarDiff struct {
	step  int
	limit [2]int
}

func NewVarDiff(limit [2]int) *VarDiff {
	return &VarDiff{
		limit: limit,
	}
}

func (v *VarDiff) Inc() bool {
	if v.val(v.step+1) > v.limit[1] {
		return false
	}
	v.step++
	return true
}

func (v *VarDiff) Dec() bool {
	if v.step == 0 {
		return false
	}
	v.step--
	return true
}

func (v *VarDiff) Val() int {
	return v.val(v.step)
}

func (v *VarDiff) val(step int) int {
	return int(float64(v.limit[0]) * math.Pow(2, float64(step)))
}
