package prompt

import "sync"

// Answer is one queued reply.
type Answer struct {
	Accept bool
	Text   string
}

// Yes accepts a confirmation.
func Yes() Answer { return Answer{Accept: true} }

// No declines a confirmation or cancels a prompt.
func No() Answer { return Answer{} }

// Text answers a prompt.
func Text(s string) Answer { return Answer{Accept: true, Text: s} }

// Scripted replays queued answers in order and records every question.
type Scripted struct {
	mu       sync.Mutex
	answers  []Answer
	asked    []string
	fallback *Answer
}

// NewScripted creates a confirmer that returns ErrNoAnswer once answers
// run out.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{answers: answers}
}

// AutoDecline declines every question. Used for non-interactive runs.
func AutoDecline() *Scripted {
	no := No()
	return &Scripted{fallback: &no}
}

// Queue appends answers.
func (s *Scripted) Queue(answers ...Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answers...)
}

// Asked returns the questions asked so far.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

// Confirm implements Confirmer.
func (s *Scripted) Confirm(message string) (bool, error) {
	a, err := s.next(message)
	if err != nil {
		return false, err
	}
	return a.Accept, nil
}

// Prompt implements Confirmer.
func (s *Scripted) Prompt(message string) (string, bool, error) {
	a, err := s.next(message)
	if err != nil {
		return "", false, err
	}
	if !a.Accept || a.Text == "" {
		return "", false, nil
	}
	return a.Text, true, nil
}

func (s *Scripted) next(message string) (Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.asked = append(s.asked, message)
	if len(s.answers) == 0 {
		if s.fallback != nil {
			return *s.fallback, nil
		}
		return Answer{}, ErrNoAnswer
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

var _ Confirmer = (*Scripted)(nil)
