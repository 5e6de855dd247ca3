/*
Copyright 2025 Edgesite Labs.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controller

import (
	"context"
	"encoding/json"
	"log"

	sitesv1alpha1 "github.com/edgesite/static-site-controller/api/v1alpha1"
	"github.com/apache/pulsar-client-go/pulsar"
)

const defaultEventsTopic = "site-lifecycle"

// EventsClient publishes site lifecycle events to Pulsar for downstream
// consumers (billing, dashboards, cache warmers).
type EventsClient struct {
	pulsar   pulsar.Client
	producer pulsar.Producer
	queue    chan Event
}

type Event struct {
	Event  string
	Name   string
	Spec   sitesv1alpha1.StaticSiteSpec
	Status sitesv1alpha1.StaticSiteStatus
}

func NewEventsClient(pulsarURL, topic string) (*EventsClient, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})

	if err != nil {
		return nil, err
	}

	if topic == "" {
		topic = defaultEventsTopic
	}

	// Create a producer on the topic
	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})

	if err != nil {
		return nil, err
	}

	return &EventsClient{
		pulsar:   client,
		producer: producer,
		queue:    make(chan Event, 64)}, nil
}

// Notify queues an event for delivery. Events are dropped rather than block
// the reconcile loop when the queue is full.
func (c *EventsClient) Notify(message Event) {
	select {
	case c.queue <- message:
	default:
		log.Printf("Events queue full, dropping %s event for %s",
			message.Event, message.Name)
	}
}

func (c *EventsClient) Listen() {
	for event := range c.queue {
		if jsonMessage, err := json.Marshal(event); err == nil {
			if _, err := c.producer.Send(context.Background(),
				&pulsar.ProducerMessage{Payload: jsonMessage}); err != nil {
				log.Printf("Failed to send message: %v", err)
			}
		} else {
			log.Printf("Failed to marshal message: %v", err)
		}
	}
}

func (c *EventsClient) Close() {
	close(c.queue)
	c.producer.Close()
	c.pulsar.Close()
}
