package mongo

import "go.mongodb.org/mongo-driver/v2/bson"

// notSecret matches tours that are not flagged secret, including legacy
// documents that predate the field.
var notSecret = bson.M{"$ne": true}

// activeOnly matches users that have not been soft-deleted, including
// legacy documents that predate the field.
var activeOnly = bson.M{"$ne": false}
