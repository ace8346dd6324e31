package utils

const (
	OrganizationName                      = "JumpinAI"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
)
