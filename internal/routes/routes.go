package routes

const (
	// Health
	Health = "/health"

	// Jump intake endpoints
	Jumps     = "/api/v1/jumps"
	JumpValid = "/api/v1/jumps/valid"
)
