package consts

const (
	MessageStatusPending  = "pending"
	MessageStatusApproved = "approved"
	MessageStatusRejected = "rejected"
)

const (
	MessageNameMaxLen = 100
	MessageBodyMaxLen = 500
)

// IsMessageStatus 判断是否为合法的留言状态
func IsMessageStatus(s string) bool {
	switch s {
	case MessageStatusPending, MessageStatusApproved, MessageStatusRejected:
		return true
	}
	return false
}
