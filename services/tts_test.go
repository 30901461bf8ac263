package services

import (
	"strings"
	"testing"
)

func TestSplitTextToChunksByByte(t *testing.T) {
	// Text ngắn hơn ngưỡng: giữ nguyên một chunk
	chunks := splitTextToChunksByByte("xin chào.", 100)
	if len(chunks) != 1 || chunks[0] != "xin chào." {
		t.Fatalf("text ngắn phải là 1 chunk, nhận %v", chunks)
	}

	// Text dài: cắt tại dấu câu, ghép lại phải ra text gốc
	text := strings.Repeat("Câu thứ nhất. Câu thứ hai! Câu thứ ba? ", 50)
	chunks = splitTextToChunksByByte(text, 200)
	if len(chunks) < 2 {
		t.Fatalf("text dài phải bị chia nhỏ, nhận %d chunk", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 200+4 { // cho phép lố vài byte để không cắt giữa ký tự UTF-8
			t.Fatalf("chunk %d vượt ngưỡng: %d bytes", i, len(c))
		}
	}
	if strings.Join(chunks, "") != text {
		t.Fatalf("ghép các chunk phải ra đúng text gốc")
	}
}

func TestSplitTextToChunksByByteUTF8(t *testing.T) {
	// Không có dấu câu: không được cắt giữa một ký tự tiếng Việt
	text := strings.Repeat("ắế", 300)
	chunks := splitTextToChunksByByte(text, 100)
	if strings.Join(chunks, "") != text {
		t.Fatalf("ghép các chunk phải ra đúng text gốc")
	}
	for i, c := range chunks {
		for _, r := range c {
			if r == '�' {
				t.Fatalf("chunk %d chứa ký tự UTF-8 bị cắt đôi", i)
			}
		}
	}
}
