package core

// Indicator receives fire-and-forget activity notifications from the update
// loop. It is an external collaborator; nothing in the mapping contract
// depends on it.
type Indicator interface {
	// ChannelActivity is asserted once per consumed frame when at least one
	// channel level exceeds the noise floor, deasserted otherwise.
	ChannelActivity(active bool)
}

// nopIndicator is the default when the target registers nothing.
type nopIndicator struct{}

func (nopIndicator) ChannelActivity(bool) {}

var activityIndicator Indicator = nopIndicator{}

// SetIndicator is called by target-specific code to register its indicator.
func SetIndicator(ind Indicator) {
	if ind == nil {
		activityIndicator = nopIndicator{}
		return
	}
	activityIndicator = ind
}
