package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/msgraph-go/graph"
	"github.com/custodia-labs/msgraph-go/odata"
)

var (
	usersTop    int
	usersSelect []string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Work with users in the tenant",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users, following pagination",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, token, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		opts := []graph.CallOption{graph.WithToken(token)}
		q := &odata.Query{}
		if usersTop > 0 {
			if err := q.SetTop(usersTop); err != nil {
				return err
			}
		}
		if len(usersSelect) > 0 {
			if err := q.SetSelect(usersSelect); err != nil {
				return err
			}
		}
		if !q.IsZero() {
			opts = append(opts, graph.WithQuery(q))
		}

		it := client.ListAllUsers(opts...)
		count := 0
		for it.Next(cmd.Context()) {
			user := it.Item()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", user.ID, user.DisplayName, user.Email())
			count++
		}
		if err := it.Err(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d users\n", count)
		return nil
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Fetch a single user by ID or principal name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, token, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		user, err := client.GetUser(cmd.Context(), args[0], graph.WithToken(token))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id:             %s\n", user.ID)
		fmt.Fprintf(out, "displayName:    %s\n", user.DisplayName)
		fmt.Fprintf(out, "mail:           %s\n", user.Email())
		if user.JobTitle != "" {
			fmt.Fprintf(out, "jobTitle:       %s\n", user.JobTitle)
		}
		if len(user.BusinessPhones) > 0 {
			fmt.Fprintf(out, "businessPhones: %s\n", strings.Join(user.BusinessPhones, ", "))
		}
		return nil
	},
}

func init() {
	usersListCmd.Flags().IntVar(&usersTop, "top", 0, "page size for listing requests")
	usersListCmd.Flags().StringSliceVar(&usersSelect, "select", nil, "fields to select")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersGetCmd)
	rootCmd.AddCommand(usersCmd)
}
