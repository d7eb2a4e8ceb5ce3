package consts

const (
	SessionCookieName = "auth-token"
	SessionTokenType  = "session"
)

// 视图缓存标签，写操作按标签失效
const (
	ViewGuestbook     = "guestbook"
	ViewAdminMessages = "admin:messages"
	ViewGallery       = "gallery"
	ViewAdminPhotos   = "admin:photos"
)
