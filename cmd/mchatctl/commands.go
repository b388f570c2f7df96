package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matheus3301/mchat/internal/api"
	"github.com/matheus3301/mchat/internal/chat"
	"github.com/matheus3301/mchat/internal/render"
	"github.com/matheus3301/mchat/internal/status"
	"github.com/matheus3301/mchat/internal/timefmt"
)

func (c *cli) conversationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"ls"},
		Short:   "List conversations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			resp, err := client.Conversations(ctx)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), resp.Conversations)
			}
			f := c.formatter(resp.Timezone)
			rows := render.Conversations(resp.Conversations, 0, f)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tUNREAD\tLAST\tPREVIEW")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.UserID, r.Name, render.UnreadBadge(r.Unread), r.Time, r.Preview)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users you can message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			resp, err := client.Users(ctx)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), resp.Users)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tROLE")
			for _, u := range resp.Users {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.FullName(), render.Capitalize(u.Role))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <user-id>",
		Short: "Show the conversation with a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			resp, err := client.Conversation(ctx, userID)
			if err != nil {
				return err
			}
			msgs := resp.Messages
			if limit > 0 && len(msgs) > limit {
				msgs = msgs[len(msgs)-limit:]
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), msgs)
			}
			f := c.formatter(resp.Timezone)
			for _, m := range msgs {
				fmt.Fprintln(cmd.OutOrStdout(), historyLine(m, c.profile.UserID, resp.OtherUser, f))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n messages")
	return cmd
}

// historyLine renders one message as "[time] sender: content", with the
// delivery indicator on the current user's messages.
func historyLine(m api.Message, me int64, other api.User, f *timefmt.Formatter) string {
	when := m.CreatedAt
	if ts, err := timefmt.Parse(m.CreatedAt); err == nil {
		when = f.FullDateTime(ts)
	}
	sender := m.SenderName
	if sender == "" {
		sender = other.FullName()
	}
	line := fmt.Sprintf("[%s] ", when)
	if m.SenderID == me {
		sender = "You"
	}
	line += sender + ": " + strings.ReplaceAll(m.Content, "\n", "\n    ")
	if st := status.ForMessage(m.SenderID, me, m.IsRead); st.Outbound() {
		line += " " + render.Icon(st).Glyph
	}
	return line
}

func (c *cli) sendCmd() *cobra.Command {
	var subject, priority string
	cmd := &cobra.Command{
		Use:   "send <user-id> <message...>",
		Short: "Send a message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			req := chat.ComposeRequest{
				RecipientID: userID,
				Subject:     subject,
				Priority:    priority,
				Content:     strings.Join(args[1:], " "),
			}
			if err := req.Validate(); err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			resp, err := client.Send(ctx, req.SendRequest())
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("send rejected: %s", resp.Error)
			}
			c.logger.Info("message sent", zap.Int64("recipient", userID))
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), resp.Message)
			}
			if resp.Message != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Sent message %d\n", resp.Message.ID)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Sent")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", api.DefaultSubject, "message subject")
	cmd.Flags().StringVar(&priority, "priority", api.PriorityNormal, "priority: "+strings.Join(api.Priorities, ", "))
	return cmd
}

func (c *cli) unreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unread",
		Short: "Show the unread message count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			n, err := client.UnreadCount(ctx)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), api.UnreadCountResponse{Count: n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (c *cli) markReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-read <user-id>",
		Short: "Mark every message from a user as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			if err := client.MarkConversationRead(ctx, userID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked conversation with %d as read\n", userID)
			return nil
		},
	}
}

func (c *cli) timezoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timezone [zone]",
		Short: "Store your display timezone on the server (default: this machine's zone)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zone := timefmt.LocalZoneName()
			if len(args) == 1 {
				zone = args[0]
			}
			if _, err := time.LoadLocation(zone); err != nil {
				return fmt.Errorf("unknown timezone %q", zone)
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.requestContext(cmd)
			defer cancel()

			if err := client.SetTimezone(ctx, zone); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timezone set to %s\n", zone)
			return nil
		},
	}
}

// formatter returns a formatter for the server zone, falling back to the
// profile's and then the local zone.
func (c *cli) formatter(server string) *timefmt.Formatter {
	loc, _ := timefmt.Resolve(server, c.profile.Timezone)
	return timefmt.New(loc)
}
