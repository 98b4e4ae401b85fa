// Package router maps paths to pages and gates private pages behind an
// active session.
package router

import (
	"fmt"
	"strconv"
	"strings"
)

// Page identifies a screen.
type Page int

const (
	PageRegister Page = iota
	PageLogin
	PageDashboard
	PageHistory
	PageSettings
	PageResult
)

func (p Page) String() string {
	switch p {
	case PageRegister:
		return "register"
	case PageLogin:
		return "login"
	case PageDashboard:
		return "dashboard"
	case PageHistory:
		return "history"
	case PageSettings:
		return "settings"
	case PageResult:
		return "result"
	}
	return fmt.Sprintf("page(%d)", int(p))
}

// Public reports whether the page is reachable without a session.
func (p Page) Public() bool {
	return p == PageLogin || p == PageRegister
}

// Paths.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
	PathHistory   = "/history"
	PathSettings  = "/settings"
	PathResult    = "/transcription-result"
)

// Route is a resolved navigation target.
type Route struct {
	Path string
	Page Page
	// ID is the record id for the result page, 0 when absent.
	ID int64
}

// Match maps a path to a route. The boolean is false for unknown paths.
func Match(path string) (Route, bool) {
	path = clean(path)
	switch path {
	case PathRoot, PathDashboard:
		return Route{Path: path, Page: PageDashboard}, true
	case PathLogin:
		return Route{Path: path, Page: PageLogin}, true
	case PathRegister:
		return Route{Path: path, Page: PageRegister}, true
	case PathHistory:
		return Route{Path: path, Page: PageHistory}, true
	case PathSettings:
		return Route{Path: path, Page: PageSettings}, true
	case PathResult:
		return Route{Path: path, Page: PageResult}, true
	}
	if rest, ok := strings.CutPrefix(path, PathResult+"/"); ok && !strings.Contains(rest, "/") {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Route{}, false
		}
		return Route{Path: path, Page: PageResult, ID: id}, true
	}
	return Route{}, false
}

// Resolve applies the gating rules and returns where navigation lands:
// unauthenticated requests for anything but /login or /register go to
// /register, authenticated requests for /login or /register go to /, and
// unknown paths go to / or /register depending on the session.
func Resolve(path string, authenticated bool) Route {
	route, ok := Match(path)
	if !ok {
		if authenticated {
			return Route{Path: PathRoot, Page: PageDashboard}
		}
		return Route{Path: PathRegister, Page: PageRegister}
	}
	if !authenticated && !route.Page.Public() {
		return Route{Path: PathRegister, Page: PageRegister}
	}
	if authenticated && route.Page.Public() {
		return Route{Path: PathRoot, Page: PageDashboard}
	}
	return route
}

// Path returns the canonical path of a page.
func Path(p Page, id int64) string {
	switch p {
	case PageLogin:
		return PathLogin
	case PageRegister:
		return PathRegister
	case PageHistory:
		return PathHistory
	case PageSettings:
		return PathSettings
	case PageResult:
		if id > 0 {
			return fmt.Sprintf("%s/%d", PathResult, id)
		}
		return PathResult
	}
	return PathRoot
}

func clean(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
