package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"provider_id",
			"name",
			"description",
			"category",
			"duration",
			"pricing",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"provider_id": bson.M{
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

			"category": bson.M{
				"bsonType": "string",
				"enum": []string{
					"maintenance",
					"repair",
					"inspection",
					"cleaning",
					"modification",
					"certification",
				},
			},

			"duration": bson.M{
				"bsonType": "object",
				"required": []string{"value", "unit"},
				"properties": bson.M{
					"value": bson.M{
						"bsonType": []string{"double", "int", "long", "decimal"},
						"minimum":  0,
					},
					"unit": bson.M{
						"bsonType": "string",
						"enum":     []string{"hour", "day", "week"},
					},
				},
			},

			"pricing": bson.M{
				"bsonType": "object",
				"required": []string{"value", "unit"},
				"properties": bson.M{
					"value": bson.M{
						"bsonType": []string{"double", "int", "long", "decimal"},
						"minimum":  0,
					},
					"unit": bson.M{
						"bsonType": "string",
						"enum":     []string{"flat_rate", "hourly", "daily"},
					},
				},
			},

			"availability": bson.M{
				"bsonType": "bool",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"active",
					"inactive",
					"pending_approval",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
