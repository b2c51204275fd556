package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/residencia-nna/residencia-api/internal/core/ports"
)

func TestNNAUpdateDoc_ClearRUTUnsets(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	vacio := ""

	doc := nnaUpdateDoc(ports.NNAUpdate{RUT: &vacio}, now)

	set, ok := doc["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected a $set document, got %v", doc)
	}
	if _, present := set["rut"]; present {
		// An empty string is a present value under the sparse unique
		// index; clearing twice across residents would collide.
		t.Fatal("clearing the RUT must not $set an empty string")
	}
	unset, ok := doc["$unset"].(bson.M)
	if !ok {
		t.Fatalf("expected a $unset document, got %v", doc)
	}
	if _, present := unset["rut"]; !present {
		t.Fatalf("expected rut in $unset, got %v", unset)
	}
}

func TestNNAUpdateDoc_SetRUT(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rut := "123456785"

	doc := nnaUpdateDoc(ports.NNAUpdate{RUT: &rut}, now)

	set := doc["$set"].(bson.M)
	if set["rut"] != "123456785" {
		t.Fatalf("expected rut in $set, got %v", set["rut"])
	}
	if _, present := doc["$unset"]; present {
		t.Fatalf("no $unset expected when a RUT is provided, got %v", doc["$unset"])
	}
	if set["actualizado_en"] != now {
		t.Fatalf("expected actualizado_en stamp, got %v", set["actualizado_en"])
	}
}
