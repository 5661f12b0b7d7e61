// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for day-to-day attendance tracking:
//  1. [DashboardView] : Current attendance state and available actions
//  2. [LogListView] : Browse the attendance log history
//  3. [ConfirmView] : Confirm a time in/out action
//  4. [ResultView] : Display the recorded log entry
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Attendance actions run through the AttendanceEngine, so the navigation guard and
// the business-hours window apply to TUI keypresses exactly as they do to CLI commands.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
