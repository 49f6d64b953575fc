package ledger

import "time"

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) SetNumberSource(next func() (string, error)) { s.newNumber = next }

var GenerateAccountNumber = generateAccountNumber
