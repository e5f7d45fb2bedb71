package plugin

import (
	"errors"
	"sync"

	"github.com/steelseries/golisp"
)

// The primitive surface lives in the global golisp environment and is
// registered exactly once per process.
var primitivesOnce sync.Once

func registerPrimitives() {
	primitivesOnce.Do(func() {
		golisp.MakePrimitiveFunction("plugin-manifest", "3", manifestImpl)
		golisp.MakePrimitiveFunction("register-command", "3", registerCommandImpl)
		golisp.MakePrimitiveFunction("on-event", "2", onEventImpl)
		golisp.MakePrimitiveFunction("register-locale", "3", registerLocaleImpl)
		golisp.MakePrimitiveFunction("buffer-text", "0", bufferTextImpl)
		golisp.MakePrimitiveFunction("set-buffer-text", "1", setBufferTextImpl)
		golisp.MakePrimitiveFunction("insert-text", "1", insertTextImpl)
		golisp.MakePrimitiveFunction("status-message", "1", statusMessageImpl)
		golisp.MakePrimitiveFunction("current-language", "0", currentLanguageImpl)
		golisp.MakePrimitiveFunction("t", "1", translateImpl)
		golisp.MakePrimitiveFunction("uuid", "0", uuidImpl)
		golisp.MakePrimitiveFunction("plugin-resource", "1", pluginResourceImpl)
	})
}

func argString(d *golisp.Data, name string) (string, error) {
	if !golisp.StringP(d) {
		return "", errors.New(name + " requires a string argument")
	}
	return golisp.StringValue(d), nil
}

func manifestImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	name, err := argString(golisp.Car(args), "plugin-manifest")
	if err != nil {
		return nil, err
	}
	version, err := argString(golisp.Cadr(args), "plugin-manifest")
	if err != nil {
		return nil, err
	}
	minApp, err := argString(golisp.Caddr(args), "plugin-manifest")
	if err != nil {
		return nil, err
	}
	// An incompatible manifest aborts the file load; the runtime rolls
	// back anything the file registered before the manifest call.
	return nil, current.checkManifest(name, version, minApp)
}

func registerCommandImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	label, err := argString(golisp.Car(args), "register-command")
	if err != nil {
		return nil, err
	}
	siteName, err := argString(golisp.Cadr(args), "register-command")
	if err != nil {
		return nil, err
	}
	site, ok := siteFromString(siteName)
	if !ok {
		return nil, errors.New("register-command: unknown site " + siteName)
	}
	fn := golisp.Caddr(args)
	if fn == nil {
		return nil, errors.New("register-command requires a callback")
	}
	current.commands = append(current.commands, Command{
		Label:  label,
		Site:   site,
		Plugin: current.loadingFile,
		fn:     fn,
	})
	return nil, nil
}

func onEventImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	eventName, err := argString(golisp.Car(args), "on-event")
	if err != nil {
		return nil, err
	}
	event, ok := eventFromString(eventName)
	if !ok {
		return nil, errors.New("on-event: unknown event " + eventName)
	}
	fn := golisp.Cadr(args)
	if fn == nil {
		return nil, errors.New("on-event requires a callback")
	}
	current.handlers[event] = append(current.handlers[event], handler{
		plugin: current.loadingFile,
		fn:     fn,
	})
	return nil, nil
}

// registerLocaleImpl adds one translated string: (register-locale lang key text).
func registerLocaleImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	lang, err := argString(golisp.Car(args), "register-locale")
	if err != nil {
		return nil, err
	}
	key, err := argString(golisp.Cadr(args), "register-locale")
	if err != nil {
		return nil, err
	}
	text, err := argString(golisp.Caddr(args), "register-locale")
	if err != nil {
		return nil, err
	}
	added := current.ctrl.RegisterLocale(lang, map[string]string{key: text})
	if len(added) > 0 {
		current.localeAdds = append(current.localeAdds, localeAdd{lang: lang, keys: added})
	}
	return nil, nil
}

func bufferTextImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	return golisp.StringWithValue(current.ctrl.BufferText()), nil
}

func setBufferTextImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	text, err := argString(golisp.Car(args), "set-buffer-text")
	if err != nil {
		return nil, err
	}
	current.ctrl.SetBufferText(text)
	return nil, nil
}

func insertTextImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	text, err := argString(golisp.Car(args), "insert-text")
	if err != nil {
		return nil, err
	}
	current.ctrl.InsertText(text)
	return nil, nil
}

func statusMessageImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	msg, err := argString(golisp.Car(args), "status-message")
	if err != nil {
		return nil, err
	}
	current.ctrl.StatusMessage(msg)
	return nil, nil
}

func currentLanguageImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	return golisp.StringWithValue(current.ctrl.CurrentLanguage()), nil
}

func translateImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	key, err := argString(golisp.Car(args), "t")
	if err != nil {
		return nil, err
	}
	return golisp.StringWithValue(current.ctrl.Translate(key)), nil
}

func uuidImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	return golisp.StringWithValue(newUUID()), nil
}

func pluginResourceImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	rel, err := argString(golisp.Car(args), "plugin-resource")
	if err != nil {
		return nil, err
	}
	return golisp.StringWithValue(current.resourcePath(rel)), nil
}
