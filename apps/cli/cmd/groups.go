package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/studyhub/packages/api"
)

var groupInput api.GroupInput

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Browse and create study groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all study groups",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		groups, err := s.client.ListGroups(ctx)
		if err != nil {
			return err
		}
		s.out.FormatGroups(groups)
		return nil
	}),
}

var groupsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the groups you created",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		groups, err := s.client.MyGroups(ctx)
		if err != nil {
			return err
		}
		s.out.FormatGroups(groups)
		return nil
	}),
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a study group",
	Long: `Create a study group owned by the signed-in user.

Examples:
  studyhub groups create --name "Calculus II" --subject Math
  studyhub groups create --name Physics --subject Science --max-members 6 --skill-level intermediate`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, _ []string) error {
		g, err := s.client.CreateGroup(ctx, groupInput)
		if err != nil {
			return err
		}
		s.out.FormatGroups([]api.Group{*g})
		return nil
	}),
}

func init() {
	f := groupsCreateCmd.Flags()
	f.StringVar(&groupInput.GroupName, "name", "", "Group name (required)")
	f.StringVar(&groupInput.Subject, "subject", "", "Subject (required)")
	f.StringVar(&groupInput.Description, "description", "", "Description")
	f.IntVar(&groupInput.MaxMembers, "max-members", 0, "Maximum number of members")
	f.StringVar(&groupInput.SkillLevel, "skill-level", "", "Skill level: beginner, intermediate, advanced")
	f.StringVar(&groupInput.MeetingFrequency, "frequency", "", "Meeting frequency")
	f.StringVar(&groupInput.MeetingTime, "time", "", "Meeting time")
	f.StringVar(&groupInput.MeetingDate, "date", "", "Meeting date")
	f.StringVar(&groupInput.Location, "location", "", "Location")
	_ = groupsCreateCmd.RegisterFlagCompletionFunc("skill-level", fixedValues("beginner", "intermediate", "advanced"))

	groupsCmd.AddCommand(groupsListCmd)
	groupsCmd.AddCommand(groupsMineCmd)
	groupsCmd.AddCommand(groupsCreateCmd)
}
