package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// -----------------------------
// Comments
// -----------------------------

func (a *App) GetCommentsByEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "eventId")
	if !ok {
		return
	}

	var comments []Comment
	err := a.db.Preload("AuthorUser").Where("event_id = ?", eventID).
		Order("created_at desc").Find(&comments).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, comments)
}

type CreateCommentRequest struct {
	EventID  string `json:"event_id" binding:"required"`
	Text     string `json:"text" binding:"required"`
	Author   string `json:"author"`
	AuthorID string `json:"author_id"`
}

// CreateComment snapshots the author display name so the comment keeps its
// attribution even if the user row goes away later.
func (a *App) CreateComment(c *gin.Context) {
	var body CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid event_id")
		return
	}

	var ev Event
	if err := a.db.First(&ev, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "event not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	comment := Comment{
		EventID: eventID,
		Text:    body.Text,
		Author:  strings.TrimSpace(body.Author),
	}

	if body.AuthorID != "" {
		aid, err := uuid.Parse(body.AuthorID)
		if err != nil {
			jsonError(c, http.StatusBadRequest, "invalid author_id")
			return
		}
		comment.AuthorID = &aid
		if comment.Author == "" {
			var author User
			if err := a.db.First(&author, "id = ?", aid).Error; err == nil {
				comment.Author = author.Name
			} else {
				comment.Author = "Unknown User"
			}
		}
	}
	if comment.Author == "" {
		comment.Author = "Anonymous"
	}

	if err := a.db.Create(&comment).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not create comment: "+err.Error())
		return
	}
	c.JSON(http.StatusCreated, comment)
}

type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (a *App) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var comment Comment
	if err := a.db.First(&comment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "comment not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	var body UpdateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	if err := a.db.Model(&comment).Update("text", body.Text).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not update comment: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (a *App) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := a.db.Delete(&Comment{}, "id = ?", id)
	if res.Error != nil {
		jsonError(c, http.StatusInternalServerError, "could not delete comment: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		jsonError(c, http.StatusNotFound, "comment not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
