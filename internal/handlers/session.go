package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"valoratbot-casino/internal/models"
)

const sessionTTL = time.Hour

// sessionMeta travels inside every encrypted game cookie alongside the
// game state. Seq is the replay counter checked against redis on every
// action; GuildID and UserID pin the cookie to its owner.
type sessionMeta struct {
	ID       string `json:"id"`
	GuildID  string `json:"guild_id"`
	UserID   string `json:"user_id"`
	Seq      int    `json:"seq"`
	IssuedAt int64  `json:"iat"`
}

func newSessionMeta(guildID, userID string) sessionMeta {
	return sessionMeta{
		ID:       uuid.New().String(),
		GuildID:  guildID,
		UserID:   userID,
		IssuedAt: time.Now().Unix(),
	}
}

// owned reports whether the cookie belongs to the caller and is still
// inside its TTL. A foreign or expired cookie is treated as no session
// at all.
func (m sessionMeta) owned(guildID, userID string) bool {
	if m.GuildID != guildID || m.UserID != userID {
		return false
	}
	return time.Since(time.Unix(m.IssuedAt, 0)) <= sessionTTL
}

func cookieName(game models.GameType) string {
	return "vb_" + string(game)
}

// readSession decrypts the game cookie into dst. Any failure, from a
// missing cookie to a forged token, reads as "no session"; the codec
// never explains what went wrong.
func (h *CasinoHandler) readSession(c *gin.Context, game models.GameType, dst any) bool {
	raw, err := c.Cookie(cookieName(game))
	if err != nil || raw == "" {
		return false
	}
	return h.codec.Decode(raw, dst)
}

func (h *CasinoHandler) writeSession(c *gin.Context, game models.GameType, v any) error {
	token, err := h.codec.Encode(v)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieName(game), token, int(sessionTTL.Seconds()), "/", "", false, true)
	return nil
}

func (h *CasinoHandler) clearSession(c *gin.Context, game models.GameType) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieName(game), "", -1, "/", "", false, true)
}
