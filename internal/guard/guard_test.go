package guard

import (
	"testing"

	"github.com/kdlcruz/tito/internal/models"
)

func internSession() models.Session {
	return models.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserType:     models.UserTypeIntern,
		UserEmail:    "intern@example.com",
	}
}

func adminSession() models.Session {
	return models.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserType:     models.UserTypeAdmin,
		UserEmail:    "admin@example.com",
	}
}

func nav(path string) models.NavigationRequest {
	return models.NavigationRequest{TargetPath: path}
}

func assertAllowed(t *testing.T, d Decision) {
	t.Helper()
	if !d.Allowed {
		t.Errorf("expected allow, got redirect to %s", d.RedirectTo)
	}
}

func assertRedirect(t *testing.T, d Decision, want string) {
	t.Helper()
	if d.Allowed {
		t.Fatalf("expected redirect to %s, got allow", want)
	}
	if d.RedirectTo != want {
		t.Errorf("expected redirect to %s, got %s", want, d.RedirectTo)
	}
}

func TestDecideUnauthenticated(t *testing.T) {
	none := models.Session{}
	state := models.AttendanceState{}

	t.Run("login pages are reachable", func(t *testing.T) {
		assertAllowed(t, Decide(nav(PathInternLogin), none, state))
		assertAllowed(t, Decide(nav(PathAdminLogin), none, state))
	})

	t.Run("landing page is reachable", func(t *testing.T) {
		assertAllowed(t, Decide(nav(PathLanding), none, state))
	})

	t.Run("scoped routes redirect to unauthorized", func(t *testing.T) {
		assertRedirect(t, Decide(nav(PathInternHome), none, state), PathUnauthorized)
		assertRedirect(t, Decide(nav(PathAdminHome), none, state), PathUnauthorized)
		assertRedirect(t, Decide(nav(PathInternTimeIn), none, state), PathUnauthorized)
		assertRedirect(t, Decide(TimeOutRequest("1", models.TaskF2F), none, state), PathUnauthorized)
	})

	t.Run("unscoped routes are reachable", func(t *testing.T) {
		assertAllowed(t, Decide(nav(PathUnauthorized), none, state))
		assertAllowed(t, Decide(nav("/about"), none, state))
	})
}

func TestDecideLandingRedirect(t *testing.T) {
	state := models.AttendanceState{}

	t.Run("intern goes to intern home", func(t *testing.T) {
		assertRedirect(t, Decide(nav(PathLanding), internSession(), state), PathInternHome)
	})

	t.Run("admin goes to admin home", func(t *testing.T) {
		assertRedirect(t, Decide(nav(PathLanding), adminSession(), state), PathAdminHome)
	})
}

func TestDecideRoleScoping(t *testing.T) {
	state := models.AttendanceState{}

	t.Run("intern cannot reach admin routes", func(t *testing.T) {
		assertRedirect(t, Decide(nav(PathAdminHome), internSession(), state), PathUnauthorized)
		assertRedirect(t, Decide(nav(PathAdminAddIntern), internSession(), state), PathUnauthorized)
	})

	t.Run("admin cannot reach intern routes", func(t *testing.T) {
		assertRedirect(t, Decide(nav(PathInternHome), adminSession(), state), PathUnauthorized)
		assertRedirect(t, Decide(nav(PathInternTimeIn), adminSession(), state), PathUnauthorized)
	})

	t.Run("matching role is allowed", func(t *testing.T) {
		assertAllowed(t, Decide(nav(PathInternHome), internSession(), state))
		assertAllowed(t, Decide(nav(PathAdminHome), adminSession(), state))
	})

	t.Run("login pages stay reachable to authenticated users", func(t *testing.T) {
		assertAllowed(t, Decide(nav(PathAdminLogin), internSession(), state))
		assertAllowed(t, Decide(nav(PathInternLogin), adminSession(), state))
	})
}

func TestDecideTimeIn(t *testing.T) {
	t.Run("allowed while timed out", func(t *testing.T) {
		state := models.AttendanceState{}
		assertAllowed(t, Decide(TimeInRequest(), internSession(), state))
	})

	t.Run("denied while already timed in", func(t *testing.T) {
		state := models.AttendanceState{IsTimedIn: true, TimedInLogID: "42", CurrentLogType: models.TaskF2F}
		assertRedirect(t, Decide(TimeInRequest(), internSession(), state), PathUnauthorized)
	})

	t.Run("denied after the daily cutoff", func(t *testing.T) {
		state := models.AttendanceState{TimedOutForTheDay: true}
		assertRedirect(t, Decide(TimeInRequest(), internSession(), state), PathUnauthorized)
	})
}

func TestDecideTimeOut(t *testing.T) {
	open := models.AttendanceState{IsTimedIn: true, TimedInLogID: "42", CurrentLogType: models.TaskF2F}

	t.Run("allowed for the open log", func(t *testing.T) {
		assertAllowed(t, Decide(TimeOutRequest("42", models.TaskF2F), internSession(), open))
	})

	t.Run("denied while not timed in", func(t *testing.T) {
		assertRedirect(t, Decide(TimeOutRequest("42", models.TaskF2F), internSession(), models.AttendanceState{}), PathUnauthorized)
	})

	t.Run("denied for a different log id", func(t *testing.T) {
		assertRedirect(t, Decide(TimeOutRequest("43", models.TaskF2F), internSession(), open), PathUnauthorized)
	})

	t.Run("denied for a different task type", func(t *testing.T) {
		assertRedirect(t, Decide(TimeOutRequest("42", models.TaskAsync), internSession(), open), PathUnauthorized)
	})

	t.Run("denied for an unknown task type", func(t *testing.T) {
		assertRedirect(t, Decide(nav("/intern/out/42/banana"), internSession(), open), PathUnauthorized)
	})

	t.Run("denied after the daily cutoff", func(t *testing.T) {
		cut := open
		cut.TimedOutForTheDay = true
		assertRedirect(t, Decide(TimeOutRequest("42", models.TaskF2F), internSession(), cut), PathUnauthorized)
	})

	t.Run("malformed path falls through to role scoping", func(t *testing.T) {
		// Missing task-type segment is not a time-out route; for an intern
		// the generic intern scope still allows it.
		assertAllowed(t, Decide(nav("/intern/out/42"), internSession(), open))
		assertRedirect(t, Decide(nav("/intern/out/42"), adminSession(), open), PathUnauthorized)
	})
}

func TestHelpers(t *testing.T) {
	t.Run("TimeOutPath builds the parameterized route", func(t *testing.T) {
		got := TimeOutPath("42", models.TaskAsync)
		if got != "/intern/out/42/async" {
			t.Errorf("unexpected path: %s", got)
		}
	})

	t.Run("HomePath per role", func(t *testing.T) {
		if HomePath(models.UserTypeAdmin) != PathAdminHome {
			t.Error("admin home mismatch")
		}
		if HomePath(models.UserTypeIntern) != PathInternHome {
			t.Error("intern home mismatch")
		}
	})
}
