package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ckd-service/internal/services"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const readingWorkers = 4

// MQTTStreamProcessor обрабатывает потоковые показания датчиков от MQTT
type MQTTStreamProcessor struct {
	iot *services.IoTService

	// Канал для потоковой обработки
	readingChannel chan *services.ReadingInput

	// Управление
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMQTTStreamProcessor создает новый процессор потоковых показаний
func NewMQTTStreamProcessor(iot *services.IoTService) *MQTTStreamProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	processor := &MQTTStreamProcessor{
		iot:            iot,
		readingChannel: make(chan *services.ReadingInput, 1000),
		ctx:            ctx,
		cancel:         cancel,
	}

	// Запуск воркеров
	processor.wg.Add(readingWorkers)
	for i := 0; i < readingWorkers; i++ {
		go processor.readingWorker(i)
	}

	slog.Info("MQTT stream processor started", "workers", readingWorkers)
	return processor
}

// HandleIncomingMQTT главный обработчик MQTT сообщений
func (p *MQTTStreamProcessor) HandleIncomingMQTT(topic string, payload []byte) {
	// Парсинг топика: medical/ckd/{reading_type}/{device_id}
	parts := strings.Split(topic, "/")
	if len(parts) != 4 {
		slog.Warn("Invalid MQTT topic format", "topic", topic)
		return
	}

	readingType := parts[2]
	deviceID := parts[3]

	var input services.ReadingInput
	if err := json.Unmarshal(payload, &input); err != nil {
		slog.Error("Failed to parse MQTT payload", "topic", topic, "error", err)
		return
	}

	// Заполнение из топика, если не указано в payload
	if input.DeviceID == "" {
		input.DeviceID = deviceID
	}
	if input.ReadingType == "" {
		input.ReadingType = readingType
	}
	if input.ReadingTimestamp == nil {
		now := time.Now().UTC()
		input.ReadingTimestamp = &now
	}

	select {
	case p.readingChannel <- &input:
	default:
		slog.Warn("Reading channel full, dropping message", "device_id", input.DeviceID)
	}
}

// MessageHandler возвращает обработчик для подписки paho
func (p *MQTTStreamProcessor) MessageHandler() mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		p.HandleIncomingMQTT(msg.Topic(), msg.Payload())
	}
}

// readingWorker пишет показания через IoT сервис
func (p *MQTTStreamProcessor) readingWorker(id int) {
	defer p.wg.Done()

	for {
		select {
		case input := <-p.readingChannel:
			p.processReading(input)
		case <-p.ctx.Done():
			slog.Info("Reading worker stopped", "worker", id)
			return
		}
	}
}

func (p *MQTTStreamProcessor) processReading(input *services.ReadingInput) {
	ctx, cancel := context.WithTimeout(p.ctx, 10*time.Second)
	defer cancel()

	reading, err := p.iot.IngestReading(ctx, input)
	if err != nil {
		slog.Error("Failed to ingest MQTT reading",
			"device_id", input.DeviceID,
			"reading_type", input.ReadingType,
			"error", err)
		return
	}

	if reading.IsAlert {
		slog.Warn("Alert raised from MQTT reading",
			"device_id", input.DeviceID,
			"reading_type", reading.ReadingType,
			"value", reading.NumericValue)
	}
}

// Stop останавливает процессор и дожидается воркеров. Канал не закрывается:
// подписка MQTT может доставить сообщение до отключения клиента, и запись
// в закрытый канал уронила бы обработчик.
func (p *MQTTStreamProcessor) Stop() {
	slog.Info("Stopping MQTT stream processor")
	p.cancel()
	p.wg.Wait()
	slog.Info("MQTT stream processor stopped")
}
