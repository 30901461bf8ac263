package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Một chương trong outline do Gemini sinh ra
type OutlineChapter struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

type CourseOutline struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Chapters    []OutlineChapter `json:"chapters"`
}

// GenerateCourseOutline nhờ Gemini soạn khung khóa học theo chủ đề.
// Kết quả là JSON để FE cho user chỉnh sửa trước khi lưu.
func GenerateCourseOutline(topic string, numChapters int) (*CourseOutline, error) {
	if numChapters <= 0 {
		numChapters = 5
	}

	prompt := fmt.Sprintf(`Bạn là chuyên gia thiết kế chương trình học cho lập trình viên chuẩn bị phỏng vấn.
	Hãy soạn khung khóa học về chủ đề: "%s"
	Yêu cầu:
	1. Khóa học gồm đúng %d chương, sắp xếp từ cơ bản đến nâng cao.
	2. Trả về DUY NHẤT một JSON object, không giải thích, không markdown ngoài khối JSON.
	3. Cấu trúc JSON:
	{
	  "title": "tên khóa học",
	  "description": "mô tả ngắn 2-3 câu",
	  "chapters": [
	    {"title": "tên chương", "description": "mô tả ngắn", "order_index": 1}
	  ]
	}
	4. order_index bắt đầu từ 1 và tăng dần, không trùng.
	5. Nội dung tiếng Việt, thuật ngữ kỹ thuật giữ tiếng Anh.`, topic, numChapters)

	raw, err := GeminiGenerateText(prompt)
	if err != nil {
		return nil, err
	}

	return ParseOutlineJSON(raw)
}

// ParseOutlineJSON parse JSON outline từ output của Gemini,
// chấp nhận cả trường hợp model bọc JSON trong code fence.
func ParseOutlineJSON(raw string) (*CourseOutline, error) {
	cleaned := extractJSONBlock(raw)

	var outline CourseOutline
	if err := json.Unmarshal([]byte(cleaned), &outline); err != nil {
		return nil, fmt.Errorf("không parse được JSON outline: %v", err)
	}
	if outline.Title == "" || len(outline.Chapters) == 0 {
		return nil, fmt.Errorf("outline thiếu title hoặc danh sách chương")
	}
	return &outline, nil
}

// GenerateChapterContent sinh nội dung markdown cho một chương
func GenerateChapterContent(courseTitle, chapterTitle, chapterDescription string) (string, error) {
	prompt := fmt.Sprintf(`Bạn là giảng viên viết giáo trình luyện phỏng vấn cho lập trình viên.
	Hãy viết nội dung đầy đủ cho một chương trong khóa học "%s".
	Chương: "%s"
	Mô tả chương: "%s"
	Yêu cầu:
	1. Viết bằng markdown: heading, danh sách, code block khi cần.
	2. Có ví dụ cụ thể và câu hỏi phỏng vấn thường gặp liên quan ở cuối chương.
	3. Nội dung tiếng Việt, thuật ngữ kỹ thuật giữ tiếng Anh.
	4. Không bình luận ngoài lề, chỉ trả về nội dung chương.`, courseTitle, chapterTitle, chapterDescription)

	content, err := GeminiGenerateText(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// extractJSONBlock cắt phần JSON ra khỏi output model:
// bỏ code fence ```json ... ``` nếu có, rồi cắt từ '{' đầu đến '}' cuối.
func extractJSONBlock(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}
