package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/Belzedar94/PokeBot/pkg/api"
	"github.com/Belzedar94/PokeBot/pkg/logger"
)

// Client представляет собой headless-контроллера.
// Этот код является примером ВНЕШНЕГО клиента, который подключается к мосту
// так же, как и настоящий контроллер: по TCP, одна JSON-строка на запрос,
// одна JSON-строка в ответ, строго в порядке запросов.
//
// Жизненный цикл:
//  1. New -> создание клиента (соединения еще нет).
//  2. Connect -> TCP-подключение к мосту.
//  3. Ping / State / Events / SetDebug -> синхронные запросы.
//  4. Run -> цикл опроса событий в отдельной горутине (опционально).
type Client struct {
	Addr    string
	Timeout time.Duration

	conn net.Conn
	r    *bufio.Reader
}

// DefaultTimeout - сколько клиент ждет ответа моста на один запрос.
// Мост отвечает в пределах одного игрового кадра, так что секунды хватает
// с большим запасом даже при просадке FPS.
const DefaultTimeout = 1 * time.Second

func New(addr string) *Client {
	return &Client{
		Addr:    addr,
		Timeout: DefaultTimeout,
	}
}

// Connect устанавливает TCP-соединение с мостом.
func (c *Client) Connect(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("failed to connect to bridge at %s: %w", c.Addr, err)
	}
	c.conn = conn
	c.r = bufio.NewReader(conn)
	logger.Log.Infof("🎮 Controller connected to bridge at %s", c.Addr)
	return nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.r = nil
	return err
}

// call отправляет один запрос и читает ровно один ответ.
// out должен встраивать api.Response: сначала проверяется ok,
// потом ответ целиком отдается вызывающему.
func (c *Client) call(req api.Request, out any) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	// --- ШАГ 1: ОТПРАВКА ЗАПРОСА ---
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	data = append(data, '\n')

	if err := c.conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		return err
	}
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("failed to send %q: %w", req.Cmd, err)
	}

	// --- ШАГ 2: ЧТЕНИЕ ОТВЕТА ---
	line, err := c.r.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("failed to read %q response: %w", req.Cmd, err)
	}

	// --- ШАГ 3: ПРОВЕРКА БАЗОВОЙ ЧАСТИ ---
	var base api.Response
	if err := json.Unmarshal(line, &base); err != nil {
		return fmt.Errorf("malformed %q response: %w", req.Cmd, err)
	}
	if !base.OK {
		return fmt.Errorf("bridge rejected %q: %s", req.Cmd, base.Error)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(line, out)
}

// Ping проверяет, что мост жив и отвечает.
func (c *Client) Ping() error {
	var resp api.PingResponse
	if err := c.call(api.Request{Cmd: "ping"}, &resp); err != nil {
		return err
	}
	if !resp.Pong {
		return fmt.Errorf("bridge answered ping without pong")
	}
	return nil
}

// State запрашивает свежий снимок состояния игры.
func (c *Client) State() (*api.Snapshot, error) {
	var resp api.StateResponse
	if err := c.call(api.Request{Cmd: "state"}, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}

// Events забирает накопленные события. Очередь моста при этом опустошается,
// поэтому все вернувшиеся события нужно обработать здесь и сейчас.
func (c *Client) Events() ([]api.Event, error) {
	var resp api.EventsResponse
	if err := c.call(api.Request{Cmd: "events"}, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// SetDebug переключает подробное логирование на стороне моста.
func (c *Client) SetDebug(enabled bool) error {
	value, err := json.Marshal(enabled)
	if err != nil {
		return err
	}
	var resp api.SetResponse
	return c.call(api.Request{Cmd: "set", Key: "debug", Value: value}, &resp)
}

// Run запускает цикл опроса событий. Должен быть запущен в горутине.
// Каждое полученное событие отдается в handle; цикл живет до отмены
// контекста или первой сетевой ошибки.
func (c *Client) Run(ctx context.Context, every time.Duration, handle func(api.Event)) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			events, err := c.Events()
			if err != nil {
				return err
			}
			for _, ev := range events {
				handle(ev)
			}
		}
	}
}
