package utils

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// ValidateJPEGContent 同时校验扩展名与文件头，只接受 JPEG。
func ValidateJPEGContent(reader io.ReadSeeker, filename string) (bool, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" {
		return false, "only .jpg/.jpeg files are accepted"
	}

	header := make([]byte, len(jpegMagic))
	n, err := io.ReadFull(reader, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return false, "file is empty"
		}
		return false, "failed to read file content"
	}

	// 重置读取位置
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return false, "failed to rewind file"
	}

	if n < len(jpegMagic) || !bytes.Equal(header, jpegMagic) {
		return false, "file content is not a JPEG image"
	}
	return true, ""
}
