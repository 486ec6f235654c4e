package events

import (
	"encoding/json"
	"strconv"

	"ms-booking/internal/kafka"
	"ms-booking/internal/models"
)

// Publisher streams directory lifecycle events to Kafka. Each message key
// is the entity id; the envelope names the event so consumers can fan out
// on a single topic per entity type.
type Publisher struct {
	Sink kafka.Sink
}

func NewPublisher(sink kafka.Sink) *Publisher {
	return &Publisher{Sink: sink}
}

type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (p *Publisher) publish(topic, event string, id int64, data interface{}) error {
	msgBytes, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return err
	}
	return p.Sink.Publish(topic, strconv.FormatInt(id, 10), msgBytes)
}

// ---------------- VENUES ----------------

func (p *Publisher) PublishVenueCreated(v models.Venue) error {
	return p.publish(kafka.TopicVenues, "venue_created", v.ID, v)
}

func (p *Publisher) PublishVenueUpdated(v models.Venue) error {
	return p.publish(kafka.TopicVenues, "venue_updated", v.ID, v)
}

func (p *Publisher) PublishVenueDeleted(v models.Venue) error {
	return p.publish(kafka.TopicVenues, "venue_deleted", v.ID, v)
}

// ---------------- ARTISTS ----------------

func (p *Publisher) PublishArtistCreated(a models.Artist) error {
	return p.publish(kafka.TopicArtists, "artist_created", a.ID, a)
}

func (p *Publisher) PublishArtistUpdated(a models.Artist) error {
	return p.publish(kafka.TopicArtists, "artist_updated", a.ID, a)
}

func (p *Publisher) PublishArtistDeleted(a models.Artist) error {
	return p.publish(kafka.TopicArtists, "artist_deleted", a.ID, a)
}

// ---------------- SHOWS ----------------

func (p *Publisher) PublishShowCreated(s models.Show) error {
	return p.publish(kafka.TopicShows, "show_created", s.ID, s)
}

func (p *Publisher) PublishShowDeleted(s models.Show) error {
	return p.publish(kafka.TopicShows, "show_deleted", s.ID, s)
}
