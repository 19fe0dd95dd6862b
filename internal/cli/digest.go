package cli

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teamsync/onboard/internal/config"
	"github.com/teamsync/onboard/internal/db"
	"github.com/teamsync/onboard/internal/platform"
	"github.com/teamsync/onboard/internal/services"
)

// RunDigestCommand runs the weekly team digest once and exits. It is meant
// to be invoked from cron or a scheduler rather than the HTTP surface.
func RunDigestCommand(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	repositories := db.NewRepositories(database)
	platformClient := platform.NewRetryClient(platform.NewHTTPClient(cfg.PlatformBaseURL, cfg.PlatformAuthToken))
	engagement := services.NewEngagementService(platformClient)
	digest := services.NewDigestService(platformClient, repositories.Teams, engagement, logger)

	digests, err := digest.RunTeamDigest(ctx)
	if err != nil {
		return fmt.Errorf("digest run failed: %w", err)
	}

	fmt.Printf("✅ Digest sent to %d team lead(s)\n", len(digests))
	for _, teamDigest := range digests {
		needingHelp := "none"
		if len(teamDigest.MembersNeedingHelp) > 0 {
			needingHelp = strings.Join(teamDigest.MembersNeedingHelp, ", ")
		}
		fmt.Printf("  %s: %d members, %d new, avg progress %d, needing help: %s\n",
			teamDigest.TeamName,
			teamDigest.MemberCount,
			teamDigest.NewMembers,
			teamDigest.AverageProgress,
			needingHelp,
		)
	}
	return nil
}
