package event

import "fmt"

// CheckSequence verifies that events form one complete, well-formed request
// sequence: either [ResponseTime?, Token*, Timing, End] or [Error]. It is
// used by tests and by defensive accounting in the receiver.
func CheckSequence(events []Event) error {
	if len(events) == 0 {
		return fmt.Errorf("empty sequence")
	}

	if _, ok := events[0].(Error); ok {
		if len(events) > 1 {
			return fmt.Errorf("events after Error: %d extra", len(events)-1)
		}
		return nil
	}

	i := 0
	if _, ok := events[i].(ResponseTime); ok {
		i++
	}
	for i < len(events) {
		if _, ok := events[i].(Token); !ok {
			break
		}
		i++
	}
	if i >= len(events) {
		return fmt.Errorf("sequence ended without Timing and End")
	}
	if _, ok := events[i].(Timing); !ok {
		return fmt.Errorf("expected Timing at position %d, got %T", i, events[i])
	}
	i++
	if i >= len(events) {
		return fmt.Errorf("sequence ended without End")
	}
	if _, ok := events[i].(End); !ok {
		return fmt.Errorf("expected End at position %d, got %T", i, events[i])
	}
	if i != len(events)-1 {
		return fmt.Errorf("events after End: %d extra", len(events)-1-i)
	}
	return nil
}
