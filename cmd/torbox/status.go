package torbox

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apiModels "github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

var showSettings bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the TorBox API is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.General.GetUpStatus(cmd.Context())
		if err != nil {
			return err
		}

		detail := resp.Detail
		if detail == "" {
			detail = "ok"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "success: %t\ndetail: %s\n", resp.Success, detail)

		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the account behind the API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAPIKey(); err != nil {
			return err
		}

		params := &apiModels.UserDataParams{}
		if showSettings {
			params.Settings = apiModels.Ptr(true)
		}

		resp, err := client.User.GetUserData(cmd.Context(), params)
		if err != nil {
			return err
		}
		if resp.Data == nil {
			return fmt.Errorf("empty user data in response")
		}

		if showSettings {
			return writeJSON(cmd.OutOrStdout(), resp.Data)
		}

		return writeUser(cmd.OutOrStdout(), resp.Data)
	},
}

func init() {
	meCmd.Flags().BoolVar(&showSettings, "settings", false, "include account settings and print as JSON")
}

var planNames = map[int]string{
	apiModels.PlanFree:      "free",
	apiModels.PlanEssential: "essential",
	apiModels.PlanPro:       "pro",
	apiModels.PlanStandard:  "standard",
}

func writeUser(w io.Writer, u *apiModels.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	expires := "-"
	if u.PremiumExpiresAt != nil {
		expires = u.PremiumExpiresAt.Format("2006-01-02")
	}

	fmt.Fprintf(tw, "id\t%d\n", u.Id)
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "plan\t%s\n", planNames[u.Plan])
	fmt.Fprintf(tw, "subscribed\t%t\n", u.IsSubscribed)
	fmt.Fprintf(tw, "premium expires\t%s\n", expires)
	fmt.Fprintf(tw, "extra slots\t%d\n", u.AdditionalConcurrentSlots)
	fmt.Fprintf(tw, "torrents downloaded\t%d\n", u.TorrentsDownloaded)

	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
