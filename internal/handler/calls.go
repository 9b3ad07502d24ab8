package handler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/config"
	"github.com/covox/callaudit/pkg/logger"
	"github.com/covox/callaudit/pkg/metrics"
	"github.com/covox/callaudit/pkg/response"
	"github.com/covox/callaudit/pkg/transcriber"
)

type scoreForm struct {
	Greeting        *float64 `json:"greeting_score" binding:"required"`
	Knowledge       *float64 `json:"knowledge_score" binding:"required"`
	Empathy         *float64 `json:"empathy_score" binding:"required"`
	ScriptAdherence *float64 `json:"script_adherence_score" binding:"required"`
	Overall         *float64 `json:"overall_score" binding:"required"`

	ComplianceStatus string  `json:"compliance_status" binding:"required"`
	Remarks          *string `json:"remarks"`
}

func (h *Handlers) registerCallRoutes(g *gin.RouterGroup) {
	g.POST("/calls/upload", h.UploadCall)
	g.GET("/calls", h.ListCalls)
	g.GET("/calls/scores", h.ListScoredCalls)
	g.GET("/calls/scores/agent/:id", h.ListAgentScores)
	g.GET("/calls/:id", h.GetCall)
	g.DELETE("/calls/:id", h.DeleteCall)
	g.GET("/calls/by-user/:id", h.ListCallsByUser)

	g.POST("/calls/:id/transcribe", h.TranscribeCall)
	g.POST("/calls/:id/score", h.ScoreCall)
}

// buildAudioKey derives the storage key for an upload. The original name is
// flattened and stripped of anything outside [a-zA-Z0-9._-] so keys stay
// safe as filenames and URL segments.
func buildAudioKey(originalName string, now time.Time) string {
	base := filepath.Base(originalName)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	sanitized := b.String()
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "audio"
	}
	return fmt.Sprintf("call_%s_%s", now.UTC().Format("20060102150405"), sanitized)
}

// UploadCall stores the recording first and only then creates the call row.
// If the insert fails the stored file is removed again so the store never
// accumulates rows' worth of audio that no record points at.
func (h *Handlers) UploadCall(c *gin.Context) {
	agentID := cast.ToUint(c.PostForm("agent_id"))
	userID := cast.ToUint(c.PostForm("user_id"))
	if agentID == 0 || userID == 0 {
		response.Fail(c, response.CodeValidationFailure, "agent_id and user_id are required")
		return
	}
	callerNumber := c.PostForm("caller_number")
	duration := cast.ToFloat64(c.PostForm("duration"))

	file, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.CodeValidationFailure, "audio file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		metrics.CallUploads.WithLabelValues(metrics.OutcomeError).Inc()
		response.Fail(c, response.CodeStorageFailure, "failed to read upload")
		return
	}
	defer src.Close()

	key := buildAudioKey(file.Filename, time.Now())
	if err := h.store.Write(key, src); err != nil {
		logger.Error("audio write failed", zap.String("key", key), zap.Error(err))
		metrics.CallUploads.WithLabelValues(metrics.OutcomeError).Inc()
		response.Fail(c, response.CodeStorageFailure, "failed to store audio")
		return
	}

	rec, err := models.CreateCallRecord(h.db, agentID, userID, callerNumber, duration, key)
	if err != nil {
		if delErr := h.store.Delete(key); delErr != nil {
			logger.Error("orphan cleanup failed after insert error",
				zap.String("key", key), zap.Error(delErr))
		}
		metrics.CallUploads.WithLabelValues(metrics.OutcomeError).Inc()
		failFromModelErr(c, err)
		return
	}

	logger.Info("call uploaded",
		zap.Int64("callId", rec.ID),
		zap.Uint("agentId", agentID),
		zap.Uint("userId", userID),
		zap.String("audioFile", key))
	metrics.CallUploads.WithLabelValues(metrics.OutcomeOK).Inc()
	response.Success(c, "call uploaded", gin.H{
		"call_id":    rec.ID,
		"audio_path": h.store.PublicURL(key),
	})
}

// TranscribeCall runs speech-to-text for a stored call and persists the
// transcript. Timeouts and service failures are reported as such and the
// previous transcript (if any) is left untouched.
func (h *Handlers) TranscribeCall(c *gin.Context) {
	id := cast.ToInt64(c.Param("id"))
	rec, err := models.GetCallRecord(h.db, id)
	if err != nil {
		failFromModelErr(c, err)
		return
	}

	exists, err := h.store.Exists(rec.AudioFile)
	if err != nil {
		response.Fail(c, response.CodeStorageFailure, "failed to check audio file")
		return
	}
	if !exists {
		response.Fail(c, response.CodeAudioMissing, "audio file not found in store")
		return
	}
	audioPath, err := h.store.AbsPath(rec.AudioFile)
	if err != nil {
		response.Fail(c, response.CodeStorageFailure, "failed to resolve audio file")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.GlobalConfig.TranscribeTimeout)
	defer cancel()

	start := time.Now()
	result, err := h.asr.Transcribe(ctx, audioPath)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, transcriber.ErrTimeout) {
			logger.Warn("transcription timed out",
				zap.Int64("callId", id), zap.Duration("elapsed", elapsed))
			metrics.Transcriptions.WithLabelValues(metrics.OutcomeTimeout).Inc()
			response.Fail(c, response.CodeTranscriptionTimeout, "transcription timed out")
			return
		}
		logger.Error("transcription failed", zap.Int64("callId", id), zap.Error(err))
		metrics.Transcriptions.WithLabelValues(metrics.OutcomeError).Inc()
		response.Fail(c, response.CodeTranscriptionFailure, "transcription service failed")
		return
	}

	if err := models.SetTranscription(h.db, id, result.Text); err != nil {
		metrics.Transcriptions.WithLabelValues(metrics.OutcomeError).Inc()
		failFromModelErr(c, err)
		return
	}

	metrics.Transcriptions.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.TranscriptionSeconds.Observe(elapsed.Seconds())
	logger.Info("call transcribed",
		zap.Int64("callId", id),
		zap.String("vendor", h.asr.Vendor()),
		zap.Duration("elapsed", elapsed))
	response.Success(c, "call transcribed", gin.H{
		"call_id":       id,
		"transcription": result.Text,
		"language":      result.Language,
	})
}

// ScoreCall applies a reviewer's score group to a call.
func (h *Handlers) ScoreCall(c *gin.Context) {
	id := cast.ToInt64(c.Param("id"))
	var form scoreForm
	if err := c.ShouldBindJSON(&form); err != nil {
		metrics.ScoreSubmissions.WithLabelValues(metrics.OutcomeError).Inc()
		response.Fail(c, response.CodeValidationFailure, err.Error())
		return
	}

	scores := models.CallScores{
		Greeting:         *form.Greeting,
		Knowledge:        *form.Knowledge,
		Empathy:          *form.Empathy,
		ScriptAdherence:  *form.ScriptAdherence,
		Overall:          *form.Overall,
		ComplianceStatus: form.ComplianceStatus,
		Remarks:          form.Remarks,
	}
	if err := models.ApplyScores(h.db, id, scores); err != nil {
		metrics.ScoreSubmissions.WithLabelValues(metrics.OutcomeError).Inc()
		failFromModelErr(c, err)
		return
	}

	metrics.ScoreSubmissions.WithLabelValues(metrics.OutcomeOK).Inc()
	logger.Info("call scored", zap.Int64("callId", id), zap.Float64("overall", *form.Overall))
	response.Success(c, "scores saved", nil)
}

func (h *Handlers) GetCall(c *gin.Context) {
	id := cast.ToInt64(c.Param("id"))
	rec, err := models.GetCallRecord(h.db, id)
	if err != nil {
		failFromModelErr(c, err)
		return
	}
	response.Success(c, "", gin.H{
		"call":       rec,
		"audio_path": h.store.PublicURL(rec.AudioFile),
	})
}

func (h *Handlers) ListCalls(c *gin.Context) {
	recs, err := models.ListCallRecords(h.db)
	if err != nil {
		response.Fail(c, response.CodePersistenceFailure, "failed to list calls")
		return
	}
	response.Success(c, "", recs)
}

func (h *Handlers) ListCallsByUser(c *gin.Context) {
	userID := cast.ToUint(c.Param("id"))
	if _, err := models.GetUserByID(h.db, userID); err != nil {
		failFromModelErr(c, err)
		return
	}
	recs, err := models.ListCallRecordsByUser(h.db, userID)
	if err != nil {
		response.Fail(c, response.CodePersistenceFailure, "failed to list calls")
		return
	}
	response.Success(c, "", recs)
}

// ListAgentScores returns one agent's scored calls for review dashboards.
func (h *Handlers) ListAgentScores(c *gin.Context) {
	id := cast.ToUint(c.Param("id"))
	if _, err := models.GetAgentByID(h.db, id); err != nil {
		failFromModelErr(c, err)
		return
	}
	recs, err := models.ListScoredCallsByAgent(h.db, id)
	if err != nil {
		response.Fail(c, response.CodePersistenceFailure, "failed to list scored calls")
		return
	}
	response.Success(c, "", recs)
}

func (h *Handlers) ListScoredCalls(c *gin.Context) {
	recs, err := models.ListScoredCalls(h.db)
	if err != nil {
		response.Fail(c, response.CodePersistenceFailure, "failed to list scored calls")
		return
	}
	response.Success(c, "", recs)
}

// DeleteCall removes the row and then the audio file. A failed file delete
// is logged but does not fail the request; the sweeper picks up leftovers.
func (h *Handlers) DeleteCall(c *gin.Context) {
	id := cast.ToInt64(c.Param("id"))
	rec, err := models.GetCallRecord(h.db, id)
	if err != nil {
		failFromModelErr(c, err)
		return
	}
	if err := models.DeleteCallRecord(h.db, id); err != nil {
		failFromModelErr(c, err)
		return
	}
	if err := h.store.Delete(rec.AudioFile); err != nil {
		logger.Warn("audio delete failed",
			zap.Int64("callId", id), zap.String("key", rec.AudioFile), zap.Error(err))
	}
	response.Success(c, "call deleted", nil)
}
