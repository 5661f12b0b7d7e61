package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/kdlcruz/tito/internal/models"
)

var (
	_ list.Item = logItem{}
)

// logItem wraps [models.AttendanceLog] to implement [list.Item].
type logItem struct {
	log models.AttendanceLog
}

func (i logItem) FilterValue() string { return i.log.Date }
func (i logItem) Title() string {
	return fmt.Sprintf("%s [%s]", i.log.Date, i.log.LogType)
}
func (i logItem) Description() string {
	span := i.log.TimeIn
	if i.log.TimeOut != "" {
		span = fmt.Sprintf("%s - %s", i.log.TimeIn, i.log.TimeOut)
	}
	desc := fmt.Sprintf("%s • %s", span, i.log.Status)
	if i.log.AdminRemarks != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.log.AdminRemarks)
	}
	return desc
}
