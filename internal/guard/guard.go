// Package guard implements the route-authorization policy.
//
// Decide is a pure function of the navigation request, the session and the
// attendance snapshot; it never reads the clock or any ambient state. The
// daily cutoff reaches it through AttendanceState.TimedOutForTheDay, and the
// business-hour rule lives in the attendance store's CanTimeInOut, not here.
package guard

import (
	"strings"

	"github.com/kdlcruz/tito/internal/models"
)

// Route paths. The time-out path carries the open log's ID and task type and
// is built with TimeOutPath.
const (
	PathLanding        = "/"
	PathUnauthorized   = "/unauthorized"
	PathInternLogin    = "/intern/login"
	PathInternHome     = "/intern/home"
	PathInternTimeIn   = "/intern/in"
	PathAdminLogin     = "/admin/login"
	PathAdminHome      = "/admin/home"
	PathAdminAddIntern = "/admin/add_intern"
)

// TimeOutPath builds the time-out route for the given log and task type.
func TimeOutPath(logID string, taskType models.TaskType) string {
	return "/intern/out/" + logID + "/" + string(taskType)
}

// TimeOutRequest builds the navigation request for timing out the given log.
func TimeOutRequest(logID string, taskType models.TaskType) models.NavigationRequest {
	return models.NavigationRequest{TargetPath: TimeOutPath(logID, taskType), TargetName: "intern_time_out"}
}

// TimeInRequest is the navigation request for opening a new log.
func TimeInRequest() models.NavigationRequest {
	return models.NavigationRequest{TargetPath: PathInternTimeIn, TargetName: "intern_time_in"}
}

// HomePath returns the home route for a role.
func HomePath(role models.UserType) string {
	if role == models.UserTypeAdmin {
		return PathAdminHome
	}
	return PathInternHome
}

// Decision is the outcome of one navigation attempt: either allowed, or a
// redirect to RedirectTo.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow is the permissive decision.
var Allow = Decision{Allowed: true}

// Redirect builds a denying decision toward path.
func Redirect(path string) Decision {
	return Decision{RedirectTo: path}
}

// Decide evaluates the authorization policy for one navigation attempt.
//
// Rules run strictly in order and the first match wins. The ordering is
// load-bearing: a logged-in user hitting the landing page must be sent home
// before any role check could deny them, and the time-in/out refinements must
// run before the generic role-scope fallback they specialize.
func Decide(req models.NavigationRequest, sess models.Session, att models.AttendanceState) Decision {
	path := req.TargetPath

	if !sess.Authenticated() {
		if isLoginPath(path) {
			return Allow
		}
		if _, scoped := scopedRole(path); scoped {
			return Redirect(PathUnauthorized)
		}
		return Allow
	}

	if path == PathLanding {
		return Redirect(HomePath(sess.UserType))
	}

	if sess.UserType == models.UserTypeIntern && att.TimedOutForTheDay && isTimeAction(path) {
		return Redirect(PathUnauthorized)
	}

	if path == PathInternTimeIn && att.IsTimedIn {
		return Redirect(PathUnauthorized)
	}

	if logID, taskType, ok := parseTimeOut(path); ok {
		if !att.IsTimedIn || logID != att.TimedInLogID || taskType != att.CurrentLogType {
			return Redirect(PathUnauthorized)
		}
		return Allow
	}

	// Login pages stay reachable to authenticated users of either role, as
	// in the source router; role scoping applies to everything else.
	if role, scoped := scopedRole(path); scoped && !isLoginPath(path) && role != sess.UserType {
		return Redirect(PathUnauthorized)
	}

	return Allow
}

func isLoginPath(path string) bool {
	return path == PathInternLogin || path == PathAdminLogin
}

// scopedRole reports which role a path is scoped to, if any.
func scopedRole(path string) (models.UserType, bool) {
	switch {
	case strings.HasPrefix(path, "/admin/"):
		return models.UserTypeAdmin, true
	case strings.HasPrefix(path, "/intern/"):
		return models.UserTypeIntern, true
	}
	return "", false
}

// isTimeAction reports whether path is the time-in route or any time-out route.
func isTimeAction(path string) bool {
	if path == PathInternTimeIn {
		return true
	}
	_, _, ok := parseTimeOut(path)
	return ok
}

// parseTimeOut destructures "/intern/out/{logID}/{taskType}". The segments
// are returned verbatim; Decide compares them against the open log, so an
// unknown task-type suffix denies rather than falling through to the generic
// role rule.
func parseTimeOut(path string) (string, models.TaskType, bool) {
	rest, ok := strings.CutPrefix(path, "/intern/out/")
	if !ok {
		return "", "", false
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}

	return parts[0], models.TaskType(parts[1]), true
}
