package utils

type Index []int

func (I Index) Copy() (R Index) {
	R = make(Index, len(I))
	copy(R, I)
	return
}

func (I Index) Contains(val int) bool {
	for _, v := range I {
		if v == val {
			return true
		}
	}
	return false
}
