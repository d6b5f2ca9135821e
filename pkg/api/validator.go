package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// Известные команды протокола.
var knownCmds = map[string]bool{
	"ping":   true,
	"state":  true,
	"events": true,
	"set":    true,
}

// KnownCmd сообщает, входит ли команда в протокол.
// Диспетчер использует это ДО роутинга, чтобы отличить
// "unknown cmd" от ошибки обработки.
func KnownCmd(cmd string) bool {
	return knownCmds[cmd]
}

// Validate возвращает ошибку с текстом, пригодным для поля "error"
// ответа как есть (контракт протокола: "unknown cmd").
func (r Request) Validate() error {
	if !KnownCmd(r.Cmd) {
		return errors.New("unknown cmd")
	}
	return nil
}
