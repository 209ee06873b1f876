// Эмулятор IoT устройств: публикует синтетические показания датчиков
// в MQTT для нагрузочной проверки потокового приёма.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// SensorPayload формат сообщения, ожидаемый потоковым процессором
type SensorPayload struct {
	DeviceID    string                 `json:"device_id"`
	ReadingType string                 `json:"reading_type"`
	ReadingData map[string]interface{} `json:"reading_data"`
}

// deviceProfile синтетический профиль устройства
type deviceProfile struct {
	deviceID    string
	readingType string
	interval    time.Duration
	generate    func(r *rand.Rand) map[string]interface{}
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	fmt.Println("Эмулятор подключен к MQTT брокеру")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	fmt.Printf("Соединение с MQTT брокером потеряно: %v\n", err)
}

func initMQTTClient(broker string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("ckd-emulator-%d", time.Now().Unix()))
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("ошибка подключения к MQTT: %w", token.Error())
	}
	return client, nil
}

func publishReading(client mqtt.Client, profile deviceProfile, payload SensorPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}

	topic := fmt.Sprintf("medical/ckd/%s/%s", profile.readingType, profile.deviceID)
	token := client.Publish(topic, 1, false, jsonData)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("таймаут отправки MQTT")
	}
	return token.Error()
}

// Профили устройств: давление, глюкоза, пульс. Значения колеблются вокруг
// реалистичных базовых уровней, изредка выходя за пороги алертов.
func deviceProfiles() []deviceProfile {
	return []deviceProfile{
		{
			deviceID:    "bp-emu-001",
			readingType: "blood_pressure",
			interval:    5 * time.Second,
			generate: func(r *rand.Rand) map[string]interface{} {
				systolic := 120 + r.NormFloat64()*15
				return map[string]interface{}{
					"systolic":  float64(int(systolic)),
					"diastolic": float64(int(systolic*0.62 + r.NormFloat64()*5)),
					"unit":      "mmHg",
				}
			},
		},
		{
			deviceID:    "glu-emu-001",
			readingType: "glucose",
			interval:    7 * time.Second,
			generate: func(r *rand.Rand) map[string]interface{} {
				return map[string]interface{}{
					"value": float64(int(105 + r.NormFloat64()*25)),
					"unit":  "mg/dL",
				}
			},
		},
		{
			deviceID:    "hr-emu-001",
			readingType: "heart_rate",
			interval:    3 * time.Second,
			generate: func(r *rand.Rand) map[string]interface{} {
				return map[string]interface{}{
					"value": float64(int(75 + r.NormFloat64()*12)),
					"unit":  "bpm",
				}
			},
		},
	}
}

// emulateDevice публикует показания одного устройства до остановки
func emulateDevice(client mqtt.Client, profile deviceProfile, done <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(profile.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			payload := SensorPayload{
				DeviceID:    profile.deviceID,
				ReadingType: profile.readingType,
				ReadingData: profile.generate(r),
			}
			if err := publishReading(client, profile, payload); err != nil {
				log.Printf("Ошибка отправки %s: %v", profile.readingType, err)
				continue
			}
			fmt.Printf("Отправлено: %s %s %v\n", profile.deviceID, profile.readingType, payload.ReadingData)
		case <-done:
			return
		}
	}
}

func main() {
	fmt.Println("=== ЭМУЛЯТОР IOT ДАТЧИКОВ ПАЦИЕНТА ===")

	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	client, err := initMQTTClient(broker)
	if err != nil {
		log.Fatalf("Не удалось инициализировать MQTT клиент: %v", err)
	}
	defer client.Disconnect(250)

	done := make(chan struct{})
	var wg sync.WaitGroup

	for _, profile := range deviceProfiles() {
		wg.Add(1)
		go emulateDevice(client, profile, done, &wg)
		fmt.Printf("Устройство %s запущено (%s каждые %s)\n",
			profile.deviceID, profile.readingType, profile.interval)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Остановка эмулятора...")
	close(done)
	wg.Wait()
	fmt.Println("Эмулятор остановлен")
}
