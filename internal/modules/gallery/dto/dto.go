package dto

import "mime/multipart"

// UploadInput 单张照片上传，category 为空时默认为 memory
type UploadInput struct {
	File     *multipart.FileHeader
	Category string
	Title    string
}

type UpdatePhotoRequest struct {
	Title *string `json:"title"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}
