package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
	"github.com/kbjinsurance/advisor/backend/internal/model/site"
	"github.com/kbjinsurance/advisor/backend/pkg/widget"
)

func chatCmd() *cobra.Command {
	var (
		endpoint     string
		leadEndpoint string
		baseURL      string
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a running server through the widget controller",
		Long: `Chat with a running server through the widget controller.

Plain lines are sent as messages. Commands:
  /open               open the widget
  /close              close the widget (discards the transcript)
  /starter N          pick canned opening N (1-based)
  /callback           open the callback form
  /lead name|email|phone
                      submit the callback form
  /cancel             dismiss the callback form
  /quit               exit
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}

			var leads widget.LeadSubmitter
			if leadEndpoint != "" {
				leads = widget.NewFormLeadSubmitter(leadEndpoint, client)
			}

			view := newTerminalView(cmd.OutOrStdout())
			controller := widget.NewController(widget.NewHTTPResponder(endpoint, client), widget.Options{
				Script:  widget.DefaultScript(site.NewRoutes(baseURL)),
				Leads:   leads,
				View:    view,
				Timeout: timeout,
			})

			fmt.Fprintf(cmd.OutOrStdout(), "conversation %s\n", controller.ConversationID())
			controller.Open()
			defer controller.Wait()

			return runChat(cmd.InOrStdin(), controller)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "http://localhost:8080/api/advisor", "Advisor endpoint")
	cmd.Flags().StringVar(&leadEndpoint, "lead-endpoint", "", "Form endpoint for callback requests (disabled when empty)")
	cmd.Flags().StringVar(&baseURL, "site", site.DefaultBaseURL, "Site base URL for canned links")
	cmd.Flags().DurationVar(&timeout, "timeout", widget.DefaultRequestTimeout, "Per-request timeout")
	return cmd
}

// chatController is the subset of *widget.Controller the loop drives.
type chatController interface {
	Open()
	Close()
	Submit(text string)
	ChooseStarter(i int)
	RequestCallback()
	SubmitLead(lead widget.Lead)
	CancelLead()
	Wait()
}

func runChat(in io.Reader, c chatController) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		command, rest, _ := strings.Cut(line, " ")

		switch command {
		case "/quit":
			return nil
		case "/open":
			c.Open()
		case "/close":
			c.Close()
		case "/callback":
			c.RequestCallback()
		case "/cancel":
			c.CancelLead()
		case "/starter":
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				continue
			}
			c.ChooseStarter(n - 1)
		case "/lead":
			c.SubmitLead(parseLead(rest))
		default:
			c.Submit(line)
		}
		// One request at a time keeps the terminal transcript in order.
		c.Wait()
	}
	return scanner.Err()
}

// parseLead reads "name|email|phone|message"; missing fields stay empty.
func parseLead(raw string) widget.Lead {
	parts := strings.SplitN(raw, "|", 4)
	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	return widget.Lead{Name: field(0), Email: field(1), Phone: field(2), Message: field(3)}
}

// terminalView prints turns as they are appended.
type terminalView struct {
	out     io.Writer
	printed int
	state   widget.State
	notice  string
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{out: out}
}

func (v *terminalView) Render(s widget.Snapshot) {
	if s.State == widget.StateClosed {
		if v.state != widget.StateClosed {
			fmt.Fprintln(v.out, "-- closed --")
		}
		v.printed = 0
		v.state = s.State
		return
	}

	for _, turn := range s.Transcript[min(v.printed, len(s.Transcript)):] {
		speaker := "advisor"
		if turn.Role == chat.RoleUser {
			speaker = "you"
		}
		fmt.Fprintf(v.out, "%s> %s\n", speaker, turn.Content)
	}
	v.printed = len(s.Transcript)

	if s.StartersOffered {
		for i, starter := range s.Starters {
			fmt.Fprintf(v.out, "  [%d] %s\n", i+1, starter)
		}
	}
	if s.State == widget.StateOpenLeadCapture && v.state != widget.StateOpenLeadCapture {
		fmt.Fprintln(v.out, "-- callback form: /lead name|email|phone --")
	}
	if s.Notice != "" && s.Notice != v.notice {
		fmt.Fprintf(v.out, "!! %s\n", s.Notice)
	}
	v.notice = s.Notice
	v.state = s.State
}

func (v *terminalView) ScrollToLatest() {}
