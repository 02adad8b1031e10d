package acl

import (
	"sync"

	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// Translate converts a foreign status into a domain error.
// A nil status translates to nil. The status is released before Translate
// returns, whichever branch is taken.
func Translate(st ports.Status) error {
	if st == nil {
		return nil
	}

	g := guard(st)
	defer g.release()

	return MapCode(st.Code(), st.Message())
}

// MapCode maps a status code and message to the matching domain error.
// Codes outside the recognized set map to domain.UnknownError.
func MapCode(code ports.StatusCode, message string) error {
	return domain.NewError(KindForCode(code), message)
}

// KindForCode returns the domain kind for a status code.
func KindForCode(code ports.StatusCode) domain.Kind {
	switch code {
	case ports.StatusInternal:
		return domain.KindInternal
	case ports.StatusNotFound:
		return domain.KindNotFound
	case ports.StatusInvalidArg:
		return domain.KindInvalidArgument
	case ports.StatusUnavailable:
		return domain.KindUnavailable
	case ports.StatusUnsupported:
		return domain.KindUnsupported
	case ports.StatusAlreadyExists:
		return domain.KindAlreadyExists
	default:
		return domain.KindUnknown
	}
}

// CodeForKind returns the status code for a domain kind.
func CodeForKind(kind domain.Kind) ports.StatusCode {
	switch kind {
	case domain.KindInternal:
		return ports.StatusInternal
	case domain.KindNotFound:
		return ports.StatusNotFound
	case domain.KindInvalidArgument:
		return ports.StatusInvalidArg
	case domain.KindUnavailable:
		return ports.StatusUnavailable
	case domain.KindUnsupported:
		return ports.StatusUnsupported
	case domain.KindAlreadyExists:
		return ports.StatusAlreadyExists
	default:
		return ports.StatusUnknown
	}
}

// scoped owns a status for the duration of one translation and releases it
// at most once.
type scoped struct {
	st   ports.Status
	once sync.Once
}

func guard(st ports.Status) *scoped {
	return &scoped{st: st}
}

func (s *scoped) release() {
	s.once.Do(s.st.Release)
}
