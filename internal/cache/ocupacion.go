package cache

// Occupancy is a per-slot annotation kept only on this machine. It is never sent to
// the server and has no bearing on the stored layout.
type Occupancy string

const (
	Free     Occupancy = "libre"
	Occupied Occupancy = "ocupado"
	Reserved Occupancy = "reservado"
)

// Next cycles libre → ocupado → reservado → libre. Unknown values restart at ocupado.
func (o Occupancy) Next() Occupancy {
	switch o {
	case Free:
		return Occupied
	case Occupied:
		return Reserved
	case Reserved:
		return Free
	default:
		return Occupied
	}
}

// OccupancyOf reads a slot's state, defaulting to libre.
func OccupancyOf(states map[int]Occupancy, slot int) Occupancy {
	if s, ok := states[slot]; ok {
		return s
	}
	return Free
}
