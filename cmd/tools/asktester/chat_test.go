package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbjinsurance/advisor/backend/internal/model/site"
	"github.com/kbjinsurance/advisor/backend/pkg/widget"
)

type echoResponder struct{}

func (echoResponder) Reply(_ context.Context, req widget.Request) (string, error) {
	return "echo: " + req.User, nil
}

func TestParseLead(t *testing.T) {
	lead := parseLead(" Dana | dana@example.test |555-0100")
	assert.Equal(t, widget.Lead{Name: "Dana", Email: "dana@example.test", Phone: "555-0100"}, lead)

	assert.Equal(t, widget.Lead{Name: "Dana"}, parseLead("Dana"))
}

func TestRunChatPrintsTranscript(t *testing.T) {
	var out bytes.Buffer
	controller := widget.NewController(echoResponder{}, widget.Options{
		Script: widget.DefaultScript(site.NewRoutes("https://example.test")),
		View:   newTerminalView(&out),
	})

	controller.Open()
	input := strings.NewReader("/starter 3\nwhat is IUL?\n/close\n/open\n/quit\nnever sent\n")
	require.NoError(t, runChat(input, controller))

	text := out.String()
	assert.Contains(t, text, "advisor> Welcome!")
	assert.Contains(t, text, "[1] I need a new policy.")
	assert.Contains(t, text, "you> I have a general question.")
	assert.Contains(t, text, "advisor> echo: what is IUL?")
	assert.Contains(t, text, "-- closed --")
	assert.Equal(t, 2, strings.Count(text, "advisor> Welcome!"))
	assert.NotContains(t, text, "never sent")
}
