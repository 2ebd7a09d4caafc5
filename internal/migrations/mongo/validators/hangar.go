package validators

import "go.mongodb.org/mongo-driver/bson"

var HangarValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"description",
			"size",
			"status",
			"price_per_day",
			"location",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"size": bson.M{
				"bsonType": "string",
				"enum": []string{
					"small",
					"medium",
					"large",
					"extra-large",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"occupied",
					"maintenance",
					"inactive",
				},
			},

			"price_per_day": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"location": bson.M{
				"bsonType": "object",
				"required": []string{"address", "city", "state", "zip_code"},
				"properties": bson.M{
					"address": bson.M{
						"bsonType":  "string",
						"maxLength": 200,
					},
					"city": bson.M{
						"bsonType":  "string",
						"maxLength": 100,
					},
					"state": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 2,
					},
					"zip_code": bson.M{
						"bsonType":  "string",
						"maxLength": 10,
					},
				},
			},

			"availability": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"start_date", "end_date"},
					"properties": bson.M{
						"start_date": bson.M{"bsonType": "date"},
						"end_date":   bson.M{"bsonType": "date"},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
