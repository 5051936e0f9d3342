package telegram

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Callback action constants.
const (
	actionReview     = "rv"  // mark next revision reviewed
	actionReschedule = "rs"  // move overdue revisions to tomorrow
	actionSchedule   = "sch" // open a subtopic's schedule
	actionToggle     = "tg"  // toggle one revision slot
	actionComplete   = "cm"  // toggle the manual completed flag
	actionToday      = "today"
	actionCalendar   = "cal"
	actionReset      = "reset"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

var errBadCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
// Encoded form is "action:param:param" and must stay within Telegram's 64 bytes.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func (cd callbackData) subTopicID() (uuid.UUID, error) {
	if len(cd.Params) < 1 {
		return uuid.Nil, errBadCallback
	}
	id, err := uuid.Parse(cd.Params[0])
	if err != nil {
		return uuid.Nil, errBadCallback
	}
	return id, nil
}

// toggle returns the slot number and the desired completion state of a toggle callback.
func (cd callbackData) toggle() (id uuid.UUID, number int, done bool, err error) {
	if len(cd.Params) != 3 {
		return uuid.Nil, 0, false, errBadCallback
	}
	if id, err = cd.subTopicID(); err != nil {
		return uuid.Nil, 0, false, err
	}
	number, err = strconv.Atoi(cd.Params[1])
	if err != nil || number < 1 {
		return uuid.Nil, 0, false, errBadCallback
	}
	if done, err = parseBoolParam(cd.Params[2]); err != nil {
		return uuid.Nil, 0, false, err
	}
	return id, number, done, nil
}

// complete returns the subtopic and the desired state of a completed-flag callback.
func (cd callbackData) complete() (uuid.UUID, bool, error) {
	if len(cd.Params) != 2 {
		return uuid.Nil, false, errBadCallback
	}
	id, err := cd.subTopicID()
	if err != nil {
		return uuid.Nil, false, err
	}
	completed, err := parseBoolParam(cd.Params[1])
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, completed, nil
}

func boolParam(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseBoolParam(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, errBadCallback
	}
}

// month returns the year and month of a calendar callback.
func (cd callbackData) month() (int, time.Month, error) {
	if len(cd.Params) != 2 {
		return 0, 0, errBadCallback
	}
	year, err1 := strconv.Atoi(cd.Params[0])
	month, err2 := strconv.Atoi(cd.Params[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return 0, 0, errBadCallback
	}
	return year, time.Month(month), nil
}

func buildReviewCallback(id uuid.UUID) string {
	return callbackData{Action: actionReview, Params: []string{id.String()}}.encode()
}

func buildRescheduleCallback(id uuid.UUID) string {
	return callbackData{Action: actionReschedule, Params: []string{id.String()}}.encode()
}

func buildScheduleCallback(id uuid.UUID) string {
	return callbackData{Action: actionSchedule, Params: []string{id.String()}}.encode()
}

// buildCompleteCallback builds callback data that sets the manual completed flag of id.
func buildCompleteCallback(id uuid.UUID, completed bool) string {
	return callbackData{Action: actionComplete, Params: []string{id.String(), boolParam(completed)}}.encode()
}

// buildToggleCallback builds callback data that sets slot number of id to done.
func buildToggleCallback(id uuid.UUID, number int, done bool) string {
	return callbackData{
		Action: actionToggle,
		Params: []string{id.String(), strconv.Itoa(number), boolParam(done)},
	}.encode()
}

func buildTodayCallback() string {
	return actionToday
}

func buildCalendarCallback(year int, month time.Month) string {
	return callbackData{
		Action: actionCalendar,
		Params: []string{strconv.Itoa(year), strconv.Itoa(int(month))},
	}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
