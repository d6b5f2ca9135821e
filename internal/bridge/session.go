package bridge

import (
	"bytes"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/Belzedar94/PokeBot/pkg/utils"
)

// errPeerClosed - упорядоченное закрытие со стороны контроллера.
// Это не ошибка, но жизнь сессии на этом заканчивается.
var errPeerClosed = errors.New("peer closed connection")

// Session это одно живое соединение контроллера.
//
// Сессия никогда не блокирует кадр: все операции с сокетом идут
// с дедлайном "в прошлом" (эквивалент O_NONBLOCK), а would-block
// просто откладывает работу до следующего кадра.
type Session struct {
	ID   string
	conn net.Conn

	// inbuf накопитель сырых байт до первого '\n'.
	inbuf []byte
	// outbuf очередь ответов. Строгий FIFO: ответы дописываются
	// в порядке разбора запросов и уходят с начала буфера.
	outbuf []byte

	rbuf [ReadChunk]byte
}

func newSession(conn net.Conn) *Session {
	return &Session{
		ID:   utils.GenerateID(),
		conn: conn,
	}
}

// RemoteAddr адрес контроллера (для логов и /debug/sessions).
func (s *Session) RemoteAddr() string {
	if s.conn == nil {
		return ""
	}
	return s.conn.RemoteAddr().String()
}

// readOnce делает ОДНУ неблокирующую попытку чтения в пределах
// остатка кадрового бюджета (не больше ReadChunk за раз).
// Прочитанное дописывается в inbuf и вычитается из бюджета.
func (s *Session) readOnce(budget *int) error {
	if *budget <= 0 {
		return nil
	}
	chunk := ReadChunk
	if *budget < chunk {
		chunk = *budget
	}

	_ = s.conn.SetReadDeadline(time.Now())
	n, err := s.conn.Read(s.rbuf[:chunk])
	if n > 0 {
		s.inbuf = append(s.inbuf, s.rbuf[:n]...)
		*budget -= n
	}

	switch {
	case err == nil:
		return nil
	case isWouldBlock(err):
		// Данных нет - не ошибка, дочитаем в следующем кадре.
		return nil
	case errors.Is(err, io.EOF):
		// Чтение нуля байт = упорядоченное закрытие.
		return errPeerClosed
	default:
		return err
	}
}

// nextLine извлекает из inbuf одну строку (до '\n' включительно),
// обрезая пробельное обрамление. ok=false - полной строки еще нет.
func (s *Session) nextLine() (line []byte, ok bool) {
	idx := bytes.IndexByte(s.inbuf, '\n')
	if idx < 0 {
		return nil, false
	}
	line = bytes.TrimSpace(s.inbuf[:idx])
	s.inbuf = s.inbuf[idx+1:]
	return line, true
}

// enqueue дописывает готовый ответ (одну JSON-строку) в хвост outbuf.
func (s *Session) enqueue(response []byte) {
	s.outbuf = append(s.outbuf, response...)
	s.outbuf = append(s.outbuf, '\n')
}

// flush делает одну неблокирующую попытку записать ВЕСЬ outbuf.
// Частично записанный остаток сохраняется до следующего кадра.
func (s *Session) flush() error {
	if len(s.outbuf) == 0 {
		return nil
	}

	_ = s.conn.SetWriteDeadline(time.Now())
	n, err := s.conn.Write(s.outbuf)
	if n > 0 {
		// Копируем остаток в начало, чтобы не держать отправленные байты.
		remaining := len(s.outbuf) - n
		copy(s.outbuf, s.outbuf[n:])
		s.outbuf = s.outbuf[:remaining]
	}

	if err == nil || isWouldBlock(err) {
		return nil
	}
	return err
}

// pending сообщает, сколько байт ответов еще не ушло.
func (s *Session) pending() int {
	return len(s.outbuf)
}

func (s *Session) close() {
	_ = s.conn.Close()
}

// isWouldBlock распознает "данных нет / буфер полон" - транзиентное
// состояние неблокирующего сокета, а не ошибку.
func isWouldBlock(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
