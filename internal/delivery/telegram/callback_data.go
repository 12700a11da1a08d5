package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

// Callback action constants.
const (
	actionQuiz = "quiz"
)

// Quiz sub-actions.
const (
	quizStart  = "start"
	quizAnswer = "answer"
	quizNext   = "next"
)

// callbackData represents structured callback data.
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

// tagLength is how much of a session ID goes into callback data.
const tagLength = 8

// itemRef identifies one presentation of one session. Seq restarts with
// every session, so buttons carry a session tag as well.
type itemRef struct {
	Tag string
	Seq int
}

func refOf(session entities.Session) itemRef {
	ref := itemRef{Tag: sessionTag(session.ID)}
	if session.Current != nil {
		ref.Seq = session.Current.Seq
	}
	return ref
}

func sessionTag(id string) string {
	if len(id) > tagLength {
		return id[:tagLength]
	}
	return id
}

// matches reports whether the session is still showing the referenced item.
func (r itemRef) matches(session entities.Session) bool {
	return session.Current != nil &&
		r.Tag == sessionTag(session.ID) &&
		r.Seq == session.Current.Seq
}

func (r itemRef) params() []string {
	return []string{r.Tag, strconv.Itoa(r.Seq)}
}

func parseRef(tag, seq string) (itemRef, bool) {
	n, err := strconv.Atoi(seq)
	if tag == "" || err != nil || n < 1 {
		return itemRef{}, false
	}
	return itemRef{Tag: tag, Seq: n}, true
}

// answerParams extracts the item reference and option of an answer callback.
func (cd callbackData) answerParams() (itemRef, int, bool) {
	if len(cd.Params) != 4 {
		return itemRef{}, 0, false
	}
	ref, ok := parseRef(cd.Params[1], cd.Params[2])
	option, err := strconv.Atoi(cd.Params[3])
	if !ok || err != nil || option < 0 {
		return itemRef{}, 0, false
	}
	return ref, option, true
}

// refParam extracts the item reference of a next callback.
func (cd callbackData) refParam() (itemRef, bool) {
	if len(cd.Params) != 3 {
		return itemRef{}, false
	}
	return parseRef(cd.Params[1], cd.Params[2])
}

// buildQuizStartCallback builds callback data for starting a quiz session.
func buildQuizStartCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizStart},
	}.encode()
}

// buildQuizAnswerCallback builds callback data for answering the referenced item.
func buildQuizAnswerCallback(ref itemRef, option int) string {
	params := append([]string{quizAnswer}, ref.params()...)
	return callbackData{
		Action: actionQuiz,
		Params: append(params, strconv.Itoa(option)),
	}.encode()
}

// buildQuizNextCallback builds callback data for moving past the referenced item.
func buildQuizNextCallback(ref itemRef) string {
	return callbackData{
		Action: actionQuiz,
		Params: append([]string{quizNext}, ref.params()...),
	}.encode()
}
