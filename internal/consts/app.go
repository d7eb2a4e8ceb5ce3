package consts

const (
	ApplicationName    = "Golden Anniversary Server"
	ApplicationVersion = "v1.0.0"
)
