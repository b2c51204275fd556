package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestAlertaDedupeFilter_OnlySubjectLinked(t *testing.T) {
	filter := alertaDedupeFilter()

	// Without these guards Mongo indexes absent entity fields as null and
	// a second subjectless manual alert of the same category collides.
	for _, field := range []string{"entidad_tipo", "entidad_id"} {
		cond, ok := filter[field].(bson.M)
		if !ok {
			t.Fatalf("filter must constrain %s, got %v", field, filter[field])
		}
		if exists, ok := cond["$exists"].(bool); !ok || !exists {
			t.Fatalf("filter must require %s to exist, got %v", field, cond)
		}
	}

	estado, ok := filter["estado"].(bson.M)
	if !ok {
		t.Fatalf("filter must constrain estado, got %v", filter["estado"])
	}
	if _, ok := estado["$in"]; !ok {
		t.Fatalf("estado constraint must be an $in over open states, got %v", estado)
	}
}
