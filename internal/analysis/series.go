package analysis

// Series keeps the most recent values of a measure, oldest first.
type Series struct {
	values []float64
	limit  int
}

func NewSeries(limit int) *Series {
	if limit < 1 {
		limit = 1
	}
	return &Series{values: make([]float64, 0, limit), limit: limit}
}

func (s *Series) Push(v float64) {
	if len(s.values) == s.limit {
		copy(s.values, s.values[1:])
		s.values = s.values[:s.limit-1]
	}
	s.values = append(s.values, v)
}

func (s *Series) Len() int { return len(s.values) }

// Values returns a copy safe to hand to a plotting library.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

func (s *Series) Last() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

func (s *Series) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.values {
		sum += v
	}
	return sum / float64(len(s.values))
}
