package consts

const (
	PhotoCategoryMemory = "memory"
	PhotoCategoryEvent  = "event"
)

// MaxPhotoSize 单张照片上限 1 MiB
const MaxPhotoSize int64 = 1 << 20

func IsPhotoCategory(s string) bool {
	return s == PhotoCategoryMemory || s == PhotoCategoryEvent
}
