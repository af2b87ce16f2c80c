package dtypes

import (
	"reflect"
	"testing"

	"github.com/x448/float16"
)

func TestMapOfNames(t *testing.T) {
	if MapOfNames["Float16"] != Float16 {
		t.Fatalf("expected MapOfNames[\"Float16\"] to be Float16, got %v", MapOfNames["Float16"])
	}
	if MapOfNames["float16"] != Float16 {
		t.Fatalf("expected MapOfNames[\"float16\"] to be Float16, got %v", MapOfNames["float16"])
	}
	if MapOfNames["Half"] != Float16 {
		t.Fatalf("expected MapOfNames[\"Half\"] to be Float16, got %v", MapOfNames["Half"])
	}
	if MapOfNames["float"] != Float32 {
		t.Fatalf("expected MapOfNames[\"float\"] to be Float32, got %v", MapOfNames["float"])
	}
}

func TestDType_Size(t *testing.T) {
	if got := Float32.Size(); got != 4 {
		t.Fatalf("expected Float32.Size() to be 4, got %d", got)
	}
	if got := Float16.Size(); got != 2 {
		t.Fatalf("expected Float16.Size() to be 2, got %d", got)
	}
	if got := Uint8.Size(); got != 1 {
		t.Fatalf("expected Uint8.Size() to be 1, got %d", got)
	}
}

func TestDType_GoTypeRoundTrip(t *testing.T) {
	for _, dtype := range []DType{Float32, Float64, Float16, Uint8, Int8, Int32, Bool} {
		if got := FromGoType(dtype.GoType()); got != dtype {
			t.Fatalf("FromGoType(%s.GoType()) = %s", dtype, got)
		}
	}
	if got := FromGoType(reflect.TypeOf("")); got != InvalidDType {
		t.Fatalf("expected InvalidDType for string, got %s", got)
	}
}

func TestFromGenericsType(t *testing.T) {
	if got := FromGenericsType[float32](); got != Float32 {
		t.Fatalf("expected Float32, got %s", got)
	}
	if got := FromGenericsType[float16.Float16](); got != Float16 {
		t.Fatalf("expected Float16, got %s", got)
	}
	if got := FromGenericsType[bool](); got != Bool {
		t.Fatalf("expected Bool, got %s", got)
	}
}

func TestDType_Predicates(t *testing.T) {
	if !Float16.IsFloat() || Int32.IsFloat() {
		t.Fatal("IsFloat misclassified")
	}
	if !Uint8.IsQuantized() || Float32.IsQuantized() {
		t.Fatal("IsQuantized misclassified")
	}
	if InvalidDType.IsSupported() {
		t.Fatal("InvalidDType must not be supported")
	}
}
