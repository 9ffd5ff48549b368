// training.go - Defines the Training model and its CSV row mapping

package models

import "go-training-backend/csvcodec"

// TrainingColumns is the fixed header of the trainings CSV file.
var TrainingColumns = []string{"id", "playerId", "playerName", "trainingDay", "createdBy", "createdAt"}

type Training struct { // Training struct represents one assigned session
	ID          string `json:"id"`          // Own id namespace, max+1 allocation
	PlayerID    string `json:"playerId"`    // User id of the player; not checked
	PlayerName  string `json:"playerName"`  // "<name> - <surname>" at creation time
	TrainingDay string `json:"trainingDay"` // ISO-8601 arrival time
	CreatedBy   string `json:"createdBy"`   // User id of the creating trainer
	CreatedAt   string `json:"createdAt"`   // ISO-8601 creation timestamp
}

func (t Training) Record() csvcodec.Record {
	return csvcodec.Record{
		"id":          t.ID,
		"playerId":    t.PlayerID,
		"playerName":  t.PlayerName,
		"trainingDay": t.TrainingDay,
		"createdBy":   t.CreatedBy,
		"createdAt":   t.CreatedAt,
	}
}

func TrainingFromRecord(rec csvcodec.Record) Training {
	return Training{
		ID:          rec["id"],
		PlayerID:    rec["playerId"],
		PlayerName:  rec["playerName"],
		TrainingDay: rec["trainingDay"],
		CreatedBy:   rec["createdBy"],
		CreatedAt:   rec["createdAt"],
	}
}

func TrainingsToRecords(trainings []Training) []csvcodec.Record {
	records := make([]csvcodec.Record, 0, len(trainings))
	for _, t := range trainings {
		records = append(records, t.Record())
	}
	return records
}

func TrainingsFromRecords(records []csvcodec.Record) []Training {
	trainings := make([]Training, 0, len(records))
	for _, rec := range records {
		trainings = append(trainings, TrainingFromRecord(rec))
	}
	return trainings
}
