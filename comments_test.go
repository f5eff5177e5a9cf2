package main

import (
	"testing"
)

func TestCreateComment_AuthorFallsBackToAnonymous(t *testing.T) {
	app, _ := newTestApp(t)
	r := newTestRouter(app)

	ev := seedEvent(t, app.db, "Open Mic")

	w := performRequest(t, r, "POST", "/api/comments", CreateCommentRequest{
		EventID: ev.ID.String(),
		Text:    "Who organizes this?",
	})
	wantStatus(t, w, 201)
	comment := decodeJSON[Comment](t, w)
	if comment.Author != "Anonymous" {
		t.Errorf("author %q, want Anonymous", comment.Author)
	}
}

func TestCreateComment_AuthorResolvedFromUser(t *testing.T) {
	app, _ := newTestApp(t)
	r := newTestRouter(app)

	user := seedUser(t, app.db, "Frank", "frank@company.com")
	ev := seedEvent(t, app.db, "Retro")

	w := performRequest(t, r, "POST", "/api/comments", CreateCommentRequest{
		EventID:  ev.ID.String(),
		Text:     "Nice one",
		AuthorID: user.ID.String(),
	})
	wantStatus(t, w, 201)
	comment := decodeJSON[Comment](t, w)
	if comment.Author != "Frank" {
		t.Errorf("author %q, want the user's name", comment.Author)
	}
	if comment.AuthorID == nil || *comment.AuthorID != user.ID {
		t.Errorf("author_id not linked: %v", comment.AuthorID)
	}
}

func TestCreateComment_UnknownEvent(t *testing.T) {
	app, _ := newTestApp(t)
	r := newTestRouter(app)

	w := performRequest(t, r, "POST", "/api/comments", CreateCommentRequest{
		EventID: "00000000-0000-0000-0000-000000000001",
		Text:    "Into the void",
	})
	wantStatus(t, w, 404)
}

func TestCommentsListedNewestFirst(t *testing.T) {
	app, _ := newTestApp(t)
	r := newTestRouter(app)

	ev := seedEvent(t, app.db, "AMA")
	for _, text := range []string{"first", "second", "third"} {
		w := performRequest(t, r, "POST", "/api/comments", CreateCommentRequest{
			EventID: ev.ID.String(),
			Text:    text,
		})
		wantStatus(t, w, 201)
	}

	w := performRequest(t, r, "GET", "/api/comments/event/"+ev.ID.String(), nil)
	wantStatus(t, w, 200)
	comments := decodeJSON[[]Comment](t, w)
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
}
