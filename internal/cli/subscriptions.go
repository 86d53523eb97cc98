package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/msgraph-go/graph"
)

var (
	subChangeType      string
	subNotificationURL string
	subResource        string
	subUserID          string
	subMinutes         int
	subClientState     string
)

// resolveResource maps the --resource flag to a subscription resource path.
func resolveResource(name, userID string) (string, error) {
	switch name {
	case "messages":
		return graph.ResourceUserMessages.ForUser(userID)
	case "events":
		return graph.ResourceUserEvents.ForUser(userID)
	default:
		return "", fmt.Errorf("unknown resource %q (want messages or events)", name)
	}
}

var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Manage change notification subscriptions",
}

var subscriptionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Subscribe to changes in a user's mailbox or calendar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resource, err := resolveResource(subResource, subUserID)
		if err != nil {
			return err
		}

		client, token, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		clientState := subClientState
		if clientState == "" {
			// A random state so notification validation is per-subscription.
			clientState = uuid.NewString()
		}

		sub, err := client.CreateSubscription(cmd.Context(), graph.SubscriptionRequest{
			ChangeType:      subChangeType,
			NotificationURL: subNotificationURL,
			Resource:        resource,
			ClientState:     clientState,
		}, subMinutes, graph.WithToken(token))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id:          %s\n", sub.ID)
		fmt.Fprintf(out, "resource:    %s\n", sub.Resource)
		fmt.Fprintf(out, "expires:     %s\n", sub.ExpirationDateTime)
		fmt.Fprintf(out, "clientState: %s\n", sub.ClientState)
		return nil
	},
}

var subscriptionsDeleteCmd = &cobra.Command{
	Use:   "delete <subscription-id>",
	Short: "Delete a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, token, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		if err := client.DeleteSubscription(cmd.Context(), args[0], graph.WithToken(token)); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "deleted")
		return nil
	},
}

func init() {
	subscriptionsCreateCmd.Flags().StringVar(&subChangeType, "change-type", "created", "comma-separated change types")
	subscriptionsCreateCmd.Flags().StringVar(&subNotificationURL, "notification-url", "", "HTTPS endpoint receiving notifications")
	subscriptionsCreateCmd.Flags().StringVar(&subResource, "resource", "messages", "what to watch: messages or events")
	subscriptionsCreateCmd.Flags().StringVar(&subUserID, "user", "", "user whose mailbox to watch")
	subscriptionsCreateCmd.Flags().IntVar(&subMinutes, "minutes", 60, "minutes until the subscription expires")
	subscriptionsCreateCmd.Flags().StringVar(&subClientState, "client-state", "", "client state echoed in notifications (random by default)")
	_ = subscriptionsCreateCmd.MarkFlagRequired("notification-url")
	_ = subscriptionsCreateCmd.MarkFlagRequired("user")

	subscriptionsCmd.AddCommand(subscriptionsCreateCmd)
	subscriptionsCmd.AddCommand(subscriptionsDeleteCmd)
	rootCmd.AddCommand(subscriptionsCmd)
}
