/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package astradb

func insertOne(hc *handlerContext) (any, error) {
	doc, err := hc.params.document(ParamDocument)
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.InsertOne(hc.ctx, doc) })
}

func insertMany(hc *handlerContext) (any, error) {
	docs, err := hc.params.documents()
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.InsertMany(hc.ctx, docs) })
}

func findMany(hc *handlerContext) (any, error) {
	filter, err := hc.params.filter()
	if err != nil {
		return nil, err
	}
	opts, err := hc.params.options()
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.Find(hc.ctx, filter, opts) })
}

func findOne(hc *handlerContext) (any, error) {
	filter, err := hc.params.filter()
	if err != nil {
		return nil, err
	}
	opts, err := hc.params.options()
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.FindOne(hc.ctx, filter, opts) })
}

func updateMany(hc *handlerContext) (any, error) {
	filter, err := hc.params.filter()
	if err != nil {
		return nil, err
	}
	update, err := hc.params.update()
	if err != nil {
		return nil, err
	}
	opts, err := hc.params.options()
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.UpdateMany(hc.ctx, filter, update, opts) })
}

func deleteMany(hc *handlerContext) (any, error) {
	filter, err := hc.params.filter()
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.DeleteMany(hc.ctx, filter) })
}

func findOneAndUpdate(hc *handlerContext) (any, error) {
	filter, err := hc.params.filter()
	if err != nil {
		return nil, err
	}
	update, err := hc.params.update()
	if err != nil {
		return nil, err
	}
	opts, err := hc.params.options()
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.FindOneAndUpdate(hc.ctx, filter, update, opts) })
}

func findOneAndReplace(hc *handlerContext) (any, error) {
	filter, err := hc.params.filter()
	if err != nil {
		return nil, err
	}
	replacement, err := hc.params.document(ParamReplacement)
	if err != nil {
		return nil, err
	}
	opts, err := hc.params.options()
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.FindOneAndReplace(hc.ctx, filter, replacement, opts) })
}

func findOneAndDelete(hc *handlerContext) (any, error) {
	filter, err := hc.params.filter()
	if err != nil {
		return nil, err
	}
	opts, err := hc.params.options()
	if err != nil {
		return nil, err
	}
	return hc.call(func() (any, error) { return hc.collection.FindOneAndDelete(hc.ctx, filter, opts) })
}

func estimatedDocumentCount(hc *handlerContext) (any, error) {
	return hc.call(func() (any, error) { return hc.collection.EstimatedDocumentCount(hc.ctx) })
}
