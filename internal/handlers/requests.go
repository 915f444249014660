package handlers

// RunLotteryRequest is the request body for starting a new lottery run.
// Seed is optional; when omitted the server picks one from the clock.
type RunLotteryRequest struct {
	Seed *int64 `json:"seed"`
}
