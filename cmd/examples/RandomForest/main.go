package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/dataprep"
	"github.com/GeekyRiolu/personality-prediction/pkg/loader"
	"github.com/GeekyRiolu/personality-prediction/pkg/model"
)

// Compares a single tree, a random forest and extra trees on a synthetic
// Personality dataset with a stratified hold-out split.
func main() {
	rows := flag.Int("rows", 2000, "synthetic training rows")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	fmt.Println("=== Tree ensembles on synthetic Personality data ===")

	// Step 1. Generate and prepare the dataset
	set := data.Synthetic(*rows, 0, 0.02, *seed)
	schema := data.PersonalitySchema
	labels, err := set.Train.Text(schema.Target)
	if err != nil {
		log.Fatal(err)
	}
	enc, err := data.FitLabelEncoder(labels)
	if err != nil {
		log.Fatal(err)
	}
	y, err := enc.Encode(labels)
	if err != nil {
		log.Fatal(err)
	}
	prep, err := dataprep.Prepare(set.Train, set.Train, schema)
	if err != nil {
		log.Fatal(err)
	}
	feats, err := dataprep.Engineer(prep.Train)
	if err != nil {
		log.Fatal(err)
	}
	names := feats.NumericNames()
	X, err := feats.Matrix(names)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Generated %d samples with %d features each.\n", len(X), len(names))

	// Step 2. Stratified train/test split
	trainIdx, testIdx, err := loader.StratifiedSplit(y, 0.3, *seed)
	if err != nil {
		log.Fatal(err)
	}
	XTrain, yTrain := loader.Take(X, trainIdx), loader.TakeInts(y, trainIdx)
	XTest, yTest := loader.Take(X, testIdx), loader.TakeInts(y, testIdx)
	fmt.Printf("Train size: %d, Test size: %d\n\n", len(XTrain), len(XTest))

	// Step 3. Fit and score each model
	models := []struct {
		name string
		clf  interface {
			model.Classifier
			model.Importancer
		}
	}{
		{"decision tree", model.NewDecisionTreeClassifier(model.WithMaxDepth(5), model.WithRandomState(*seed))},
		{"random forest", model.NewRandomForest(model.WithNEstimators(50), model.WithForestMaxDepth(10), model.WithForestSeed(*seed))},
		{"extra trees", model.NewRandomForest(model.WithNEstimators(50), model.WithForestMaxDepth(10), model.WithForestSeed(*seed), model.WithExtraTrees())},
	}
	for _, m := range models {
		if err := m.clf.Fit(XTrain, yTrain); err != nil {
			log.Fatalf("%s: training failed: %v", m.name, err)
		}
		proba, err := m.clf.PredictProba(XTest)
		if err != nil {
			log.Fatalf("%s: %v", m.name, err)
		}
		pred := model.BinaryPredFromProba(proba, 0.5)
		prec, rec, f1 := model.PrecisionRecallF1(yTest, pred)
		fmt.Printf("%-14s accuracy=%.4f logloss=%.4f precision=%.3f recall=%.3f f1=%.3f\n",
			m.name, model.AccuracyInt(yTest, pred), model.LogLoss(yTest, proba), prec, rec, f1)

		imp := m.clf.FeatureImportances()
		best := 0
		for j := range imp {
			if imp[j] > imp[best] {
				best = j
			}
		}
		fmt.Printf("%-14s top feature: %s (%.3f)\n", "", names[best], imp[best])
	}

	// Step 4. Show a few decoded predictions
	fmt.Println("\nFirst 5 test rows (forest):")
	proba, err := models[1].clf.PredictProba(XTest[:5])
	if err != nil {
		log.Fatal(err)
	}
	decoded, err := enc.Decode(model.BinaryPredFromProba(proba, 0.5))
	if err != nil {
		log.Fatal(err)
	}
	truth, err := enc.Decode(yTest[:5])
	if err != nil {
		log.Fatal(err)
	}
	for i := range decoded {
		fmt.Printf("  P(%s)=%.3f -> %s, true %s\n", enc.Classes[1], proba[i], decoded[i], truth[i])
	}
}
