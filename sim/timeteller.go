package sim

// A TimeTeller can tell the current time. In this simulator time is counted
// in ticks, one tick per translated address.
type TimeTeller interface {
	CurrentTime() uint64
}
