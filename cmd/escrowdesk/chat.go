package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/escrowdesk/escrowdesk/internal/api"
	"github.com/escrowdesk/escrowdesk/internal/audit"
	"github.com/escrowdesk/escrowdesk/internal/chat"
	"github.com/escrowdesk/escrowdesk/internal/push"
	"github.com/escrowdesk/escrowdesk/internal/view"
)

var chatCmd = &cobra.Command{
	Use:   "chat <dispute-id>",
	Short: "Join a dispute room and chat live",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context(), args[0])
	},
}

func runChat(ctx context.Context, disputeID string) error {
	token, err := sess.Token()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The channel callbacks close over the syncer; it is assigned before
	// Run dials, so the callbacks never see it nil.
	var syncer *chat.Syncer
	connected := make(chan struct{}, 1)

	channel := push.New(cfg.SocketURL, token, push.Callbacks{
		OnMessage: func(m chat.Message) {
			syncer.HandleEvent(m)
		},
		OnConnect: func(ctx context.Context) {
			select {
			case connected <- struct{}{}:
			default:
			}
			if err := syncer.HandleConnect(ctx); err != nil {
				logger.Warn().Err(err).Msg("rejoin after reconnect failed")
			}
		},
		OnError: func(err error) {
			syncer.HandleChannelError(err)
		},
	}, logger)

	syncer = chat.NewSyncer(channel, api.ChatHistory{Client: client}, api.ChatPoster{Client: client}, logger)
	syncer.OnInserted = func(m chat.Message) {
		fmt.Println(view.ChatLine(m, displayLoc))
	}

	go func() {
		if err := channel.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Msg("push channel stopped")
		}
	}()

	select {
	case <-connected:
	case <-time.After(10 * time.Second):
		return fmt.Errorf("push channel did not connect to %s", cfg.SocketURL)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := syncer.Activate(ctx, disputeID); err != nil {
		return err
	}

	rec, recErr := openAudit()
	if recErr != nil {
		logger.Warn().Err(recErr).Msg("audit trail unavailable")
	} else {
		defer rec.Close()
	}
	recordAudit(ctx, rec, audit.ActionChatOpened, disputeID, "")

	fmt.Println(view.Heading("Dispute " + disputeID))
	for _, m := range syncer.Store().Messages() {
		fmt.Println(view.ChatLine(m, displayLoc))
	}
	fmt.Println(view.Muted("Type a message and press enter. /quit to leave."))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			deactivate(syncer, rec, disputeID)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok || line == "/quit" {
				deactivate(syncer, rec, disputeID)
				return nil
			}

			msg, err := syncer.Send(ctx, disputeID, line)
			switch {
			case err == nil:
				fmt.Println(view.ChatLine(msg, displayLoc))
				recordAudit(ctx, rec, audit.ActionMessageSent, disputeID, msg.ID)
			case errors.Is(err, chat.ErrStaleResponse):
				// Persisted, but the room changed underneath; nothing to show.
			default:
				var verr *chat.ValidationError
				if errors.As(err, &verr) {
					fmt.Println(view.Muted(verr.Message))
					continue
				}
				if errors.Is(err, api.ErrUnauthorized) {
					deactivate(syncer, rec, disputeID)
					return err
				}
				fmt.Println(view.Muted("send failed: " + err.Error()))
			}
		}
	}
}

func deactivate(syncer *chat.Syncer, rec audit.Recorder, disputeID string) {
	// Best-effort room exit with a fresh context; the command context is
	// usually already cancelled here.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := syncer.Deactivate(ctx); err != nil {
		logger.Warn().Err(err).Msg("leave dispute room")
	}
	recordAudit(ctx, rec, audit.ActionChatClosed, disputeID, "")
}
