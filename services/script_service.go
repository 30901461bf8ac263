package services

import (
	"regexp"
	"strings"
)

// PreCleanMarkdown xử lý thô nội dung chương trước khi đưa vào Gemini:
// bỏ code block, cú pháp markdown, dòng trống thừa
func PreCleanMarkdown(text string) string {
	cleaned := text

	// Xoá code block ```...```
	reCodeBlock := regexp.MustCompile("(?s)```.*?```")
	cleaned = reCodeBlock.ReplaceAllString(cleaned, "")

	// Xoá inline code `...`
	reInlineCode := regexp.MustCompile("`[^`]*`")
	cleaned = reInlineCode.ReplaceAllString(cleaned, "")

	// Bỏ ký hiệu heading, in đậm, in nghiêng
	reHeading := regexp.MustCompile(`(?m)^#{1,6}\s*`)
	cleaned = reHeading.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = strings.ReplaceAll(cleaned, "*", "")

	// Bỏ gạch đầu dòng
	reBullet := regexp.MustCompile(`(?m)^\s*[-+]\s+`)
	cleaned = reBullet.ReplaceAllString(cleaned, "")

	// Xoá nhiều dòng trống liên tiếp
	reMultiNewLine := regexp.MustCompile(`\n{2,}`)
	cleaned = reMultiNewLine.ReplaceAllString(cleaned, "\n")

	return strings.TrimSpace(cleaned)
}

// BuildPodcastScript dùng Gemini viết lại nội dung chương thành kịch bản
// đọc liền mạch, sẵn sàng đưa vào TTS
func BuildPodcastScript(chapterTitle, content string) (string, error) {
	prompt := `Bạn là một Biên tập viên/Người đọc Audio chuyên nghiệp, có khả năng chuyển đổi giáo trình kỹ thuật thành lời nói trôi chảy.
	Chuyển đổi nội dung chương học dưới đây thành một kịch bản đọc liền mạch (solo narration), sẵn sàng cho việc chuyển thành audio.
	Yêu cầu:
	1. Không lược bỏ nội dung chính, không tự ý thêm thông tin không có trong văn bản.
	2. Ngôn ngữ tự nhiên, gần gũi, không quá khô khan.
	3. Nếu gặp từ ngữ chuyên môn quá khó hiểu, hãy diễn giải nó một cách đơn giản mà vẫn giữ được ý nghĩa học thuật. NẾU GẶP TỪ VIẾT TẮT, HÃY VIẾT RÕ RA VÀ KHÔNG ĐƯỢC VIẾT TẮT.
	4. Giọng văn trung tính, rõ ràng, có nhịp điệu, mang tính giáo dục.
	5. Bắt đầu kịch bản bằng câu: "Ở podcast này chúng ta sẽ cùng tìm hiểu về ` + chapterTitle + `".
	6. KHÔNG sử dụng markdown, KHÔNG in đậm, KHÔNG in nghiêng, chỉ trả về văn bản thuần tuý, KHÔNG GẠCH ĐẦU DÒNG.
	7. Không bình luận, không giải thích ngoài lề, chỉ trả về nội dung kịch bản audio.
	Nội dung chương cần viết lại:`

	fullPrompt := prompt + "\n\n" + PreCleanMarkdown(content)

	return GeminiGenerateText(fullPrompt)
}
