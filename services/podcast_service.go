package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
	"github.com/vnkhanh/interview-prep-backend/utils"
	"github.com/vnkhanh/interview-prep-backend/ws"
)

// ProcessPodcastJob chạy pipeline tạo podcast cho một chương, gọi trong
// goroutine riêng sau khi controller đã tạo record với status "processing".
// Mọi bước đều bắn tiến độ qua WebSocket theo podcastID.
func ProcessPodcastJob(db *gorm.DB, podcastID uuid.UUID) {
	jobID := podcastID.String()

	var podcast models.Podcast
	if err := db.Preload("Chapter").First(&podcast, "id = ?", podcastID).Error; err != nil {
		log.Printf("Podcast job %s: không tìm thấy record: %v\n", jobID, err)
		return
	}

	fail := func(step string, err error) {
		log.Printf("Podcast job %s: lỗi bước %s: %v\n", jobID, step, err)
		db.Model(&models.Podcast{}).Where("id = ?", podcastID).
			Update("status", models.PodcastStatusFailed)
		ws.SendPodcastStatusUpdate(jobID, "failed", 0, err.Error())
	}

	if podcast.Chapter.Content == nil || *podcast.Chapter.Content == "" {
		fail("validate", fmt.Errorf("chương chưa có nội dung"))
		return
	}

	// 1. Viết kịch bản đọc từ nội dung chương
	ws.SendPodcastStatusUpdate(jobID, "processing", 10, "")
	script, err := BuildPodcastScript(podcast.Chapter.Title, *podcast.Chapter.Content)
	if err != nil {
		fail("script", err)
		return
	}

	// 2. TTS
	ws.SendPodcastStatusUpdate(jobID, "processing", 40, "")
	audio, err := SynthesizeText(script, "", 1.0)
	if err != nil {
		fail("tts", err)
		return
	}

	// 3. Upload lên Supabase Storage
	ws.SendPodcastStatusUpdate(jobID, "processing", 70, "")
	filename := fmt.Sprintf("podcast-%s-%d.mp3", jobID, time.Now().Unix())
	audioURL, err := utils.UploadBytesToSupabase(audio, filename, "audio/mpeg")
	if err != nil {
		fail("upload", err)
		return
	}

	// 4. Tính thời lượng từ URL vừa upload
	ws.SendPodcastStatusUpdate(jobID, "processing", 90, "")
	duration, err := GetMP3DurationFromURL(audioURL)
	if err != nil {
		// Không chặn pipeline vì thiếu duration, chỉ log
		log.Printf("Podcast job %s: không tính được duration: %v\n", jobID, err)
		duration = 0
	}

	updates := map[string]interface{}{
		"audio_url":    audioURL,
		"duration_sec": int(duration),
		"status":       models.PodcastStatusReady,
	}
	if err := db.Model(&models.Podcast{}).Where("id = ?", podcastID).Updates(updates).Error; err != nil {
		fail("save", err)
		return
	}

	ws.SendPodcastStatusUpdate(jobID, "ready", 100, "")
	ws.BroadcastPodcastListChanged()
	log.Printf("Podcast job %s: hoàn tất, duration=%.0fs\n", jobID, duration)
}
